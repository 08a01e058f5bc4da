package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nityamhjn05/feedback-systems/internal/models"
)

type AssignmentRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// AssignedForm is the joined view of an assignment with its form and the
// form's author, as shown on an employee's dashboard.
type AssignedForm struct {
	FormID         string              `json:"form_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	Questions      models.QuestionList `json:"questions"`
	Submitted      bool                `json:"submitted"`
	AssignedAt     time.Time           `json:"assigned_at"`
	CreatedByName  string              `json:"created_by_name"`
	CreatedByEmpID string              `json:"created_by_employee_id"`
}

// AssignmentDetail carries the employee identity alongside the assignment, for
// analytics aggregation over a creator's form-id set.
type AssignmentDetail struct {
	FormID       string
	EmployeeID   string
	EmployeeName string
	CompanyID    string
	Submitted    bool
}

func NewAssignmentRepo(pool *pgxpool.Pool, timeout time.Duration) *AssignmentRepo {
	return &AssignmentRepo{pool: pool, timeout: timeout}
}

// Upsert creates the (form, employee) binding if absent. The composite unique
// index absorbs races and replays: an existing row, submitted or not, is left
// untouched. Reports whether a new row was inserted.
func (r *AssignmentRepo) Upsert(ctx context.Context, formID, employeeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		INSERT INTO assignments (id, form_id, employee_id, submitted, assigned_at, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW(), NOW())
		ON CONFLICT (form_id, employee_id) DO NOTHING
	`, uuid.NewString(), formID, employeeID)
	if err != nil {
		return false, fmt.Errorf("upsert assignment: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// MarkSubmitted flips the submitted flag for the (form, employee) pair. A
// missing assignment is a no-op, not an error: the response has already been
// recorded and the flag is a derived value.
func (r *AssignmentRepo) MarkSubmitted(ctx context.Context, formID, employeeID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		UPDATE assignments SET submitted = TRUE, updated_at = NOW()
		WHERE form_id = $1 AND employee_id = $2
	`, formID, employeeID)
	if err != nil {
		return fmt.Errorf("mark assignment submitted: %w", err)
	}
	return nil
}

func (r *AssignmentRepo) ListForEmployee(ctx context.Context, employeeID string, unsubmittedOnly bool) ([]AssignedForm, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT a.form_id, f.title, f.description, f.questions, a.submitted, a.assigned_at,
		       e.name, e.employee_id
		FROM assignments a
		JOIN forms f ON f.id = a.form_id
		JOIN employees e ON e.id = f.created_by
		WHERE a.employee_id = $1`
	if unsubmittedOnly {
		query += " AND a.submitted = FALSE"
	}
	query += " ORDER BY a.assigned_at DESC"

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list assigned forms: %w", err)
	}
	defer rows.Close()

	var results []AssignedForm
	for rows.Next() {
		var af AssignedForm
		if err := rows.Scan(
			&af.FormID,
			&af.Title,
			&af.Description,
			&af.Questions,
			&af.Submitted,
			&af.AssignedAt,
			&af.CreatedByName,
			&af.CreatedByEmpID,
		); err != nil {
			return nil, fmt.Errorf("scan assigned form: %w", err)
		}
		results = append(results, af)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assigned forms: %w", err)
	}
	return results, nil
}

func (r *AssignmentRepo) ListByFormIDs(ctx context.Context, formIDs []string) ([]AssignmentDetail, error) {
	if len(formIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT a.form_id, a.employee_id, e.name, e.employee_id, a.submitted
		FROM assignments a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.form_id = ANY($1)
	`, formIDs)
	if err != nil {
		return nil, fmt.Errorf("list assignments by form ids: %w", err)
	}
	defer rows.Close()

	var results []AssignmentDetail
	for rows.Next() {
		var d AssignmentDetail
		if err := rows.Scan(&d.FormID, &d.EmployeeID, &d.EmployeeName, &d.CompanyID, &d.Submitted); err != nil {
			return nil, fmt.Errorf("scan assignment detail: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignment details: %w", err)
	}
	return results, nil
}

func (r *AssignmentRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, "DELETE FROM assignments WHERE employee_id = $1", employeeID)
	if err != nil {
		return fmt.Errorf("delete assignments for employee: %w", err)
	}
	return nil
}

// ReconcileSubmitted recomputes the submitted flag from response existence.
// Run after a crash could have split the response insert from the flag update.
func (r *AssignmentRepo) ReconcileSubmitted(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE assignments a SET submitted = TRUE, updated_at = NOW()
		WHERE a.submitted = FALSE AND EXISTS (
			SELECT 1 FROM responses r
			WHERE r.form_id = a.form_id AND r.employee_id = a.employee_id
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("reconcile submitted flags: %w", err)
	}
	return cmd.RowsAffected(), nil
}
