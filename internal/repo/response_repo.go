package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nityamhjn05/feedback-systems/internal/models"
)

type ResponseRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// FormResponse is a response joined with the submitting employee, for the
// form-author's review screen.
type FormResponse struct {
	ID            string            `json:"id"`
	FormID        string            `json:"form_id"`
	Answers       models.AnswerList `json:"answers"`
	SubmittedAt   time.Time         `json:"submitted_at"`
	EmployeeID    string            `json:"employee_id"`
	EmployeeName  string            `json:"employee_name"`
	EmployeeEmail string            `json:"employee_email,omitempty"`
}

// PairCount is the number of responses recorded for one (form, employee) pair.
type PairCount struct {
	FormID     string
	EmployeeID string
	Count      int
}

func NewResponseRepo(pool *pgxpool.Pool, timeout time.Duration) *ResponseRepo {
	return &ResponseRepo{pool: pool, timeout: timeout}
}

func (r *ResponseRepo) Create(ctx context.Context, resp *models.Response) (*models.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO responses (id, form_id, employee_id, answers, submitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), NOW())
		RETURNING submitted_at, created_at, updated_at
	`, resp.ID, resp.FormID, resp.EmployeeID, resp.Answers)

	if err := row.Scan(&resp.SubmittedAt, &resp.CreatedAt, &resp.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert response: %w", err)
	}
	return resp, nil
}

func (r *ResponseRepo) ListByForm(ctx context.Context, formID string) ([]FormResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.form_id, r.answers, r.submitted_at, e.employee_id, e.name, e.email
		FROM responses r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.form_id = $1
		ORDER BY r.submitted_at DESC
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var results []FormResponse
	for rows.Next() {
		var fr FormResponse
		if err := rows.Scan(
			&fr.ID,
			&fr.FormID,
			&fr.Answers,
			&fr.SubmittedAt,
			&fr.EmployeeID,
			&fr.EmployeeName,
			&fr.EmployeeEmail,
		); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		results = append(results, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return results, nil
}

func (r *ResponseRepo) CountByFormIDs(ctx context.Context, formIDs []string) (int64, error) {
	if len(formIDs) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM responses WHERE form_id = ANY($1)", formIDs)
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return total, nil
}

// CountByPair groups response counts by (form, employee) over a form-id set.
func (r *ResponseRepo) CountByPair(ctx context.Context, formIDs []string) ([]PairCount, error) {
	if len(formIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT form_id, employee_id, COUNT(*)
		FROM responses
		WHERE form_id = ANY($1)
		GROUP BY form_id, employee_id
	`, formIDs)
	if err != nil {
		return nil, fmt.Errorf("count responses by pair: %w", err)
	}
	defer rows.Close()

	var results []PairCount
	for rows.Next() {
		var pc PairCount
		if err := rows.Scan(&pc.FormID, &pc.EmployeeID, &pc.Count); err != nil {
			return nil, fmt.Errorf("scan pair count: %w", err)
		}
		results = append(results, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pair counts: %w", err)
	}
	return results, nil
}

func (r *ResponseRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, "DELETE FROM responses WHERE employee_id = $1", employeeID)
	if err != nil {
		return fmt.Errorf("delete responses for employee: %w", err)
	}
	return nil
}
