package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nityamhjn05/feedback-systems/internal/models"
)

const employeeColumns = "id, employee_id, name, email, password_hash, role, created_at, updated_at"

type EmployeeRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

type EmployeeFilters struct {
	Role    string
	Page    int
	PerPage int
}

func NewEmployeeRepo(pool *pgxpool.Pool, timeout time.Duration) *EmployeeRepo {
	return &EmployeeRepo{pool: pool, timeout: timeout}
}

func (r *EmployeeRepo) Create(ctx context.Context, emp *models.Employee) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (id, employee_id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`, emp.ID, emp.EmployeeID, emp.Name, emp.Email, emp.PasswordHash, emp.Role)

	if err := row.Scan(&emp.CreatedAt, &emp.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	return emp, nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	return r.getOne(ctx, "id", id)
}

func (r *EmployeeRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	return r.getOne(ctx, "employee_id", employeeID)
}

func (r *EmployeeRepo) getOne(ctx context.Context, column, value string) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM employees WHERE %s = $1
	`, employeeColumns, column), value)

	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by %s: %w", column, err)
	}
	return emp, nil
}

// FindByIdentifiers resolves a mixed batch of company ids and names to
// employee records in one pass. Overlapping identifiers resolve to a single
// row each.
func (r *EmployeeRepo) FindByIdentifiers(ctx context.Context, employeeIDs, names []string) ([]models.Employee, error) {
	if len(employeeIDs) == 0 && len(names) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE employee_id = ANY($1) OR name = ANY($2)
		ORDER BY employee_id
	`, employeeColumns), employeeIDs, names)
	if err != nil {
		return nil, fmt.Errorf("find employees by identifiers: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *EmployeeRepo) Search(ctx context.Context, term string, limit int) ([]models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE name ILIKE '%%' || $1 || '%%' OR employee_id ILIKE '%%' || $1 || '%%'
		ORDER BY employee_id
		LIMIT $2
	`, employeeColumns), term, limit)
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *EmployeeRepo) ListAll(ctx context.Context) ([]models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM employees ORDER BY employee_id
	`, employeeColumns))
	if err != nil {
		return nil, fmt.Errorf("list all employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *EmployeeRepo) List(ctx context.Context, filters EmployeeFilters) ([]models.Employee, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	whereSQL := ""
	args := []any{}
	if filters.Role != "" {
		whereSQL = "WHERE role = $1"
		args = append(args, filters.Role)
	}

	var total int64
	countRow := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM employees %s", whereSQL), args...)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	limit := filters.PerPage
	if limit <= 0 {
		limit = 50
	}
	offset := (filters.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM employees
		%s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d
	`, employeeColumns, whereSQL, limit, offset), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *EmployeeRepo) UpdateProfile(ctx context.Context, id, name, email, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		UPDATE employees
		SET name = $1, email = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $4
	`, name, email, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update employee profile: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		UPDATE employees SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) UpdateRole(ctx context.Context, id, role string) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE employees SET role = $1, updated_at = NOW() WHERE id = $2
		RETURNING %s
	`, employeeColumns), role, id)

	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	return emp, nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		DELETE FROM employees WHERE id = $1 RETURNING %s
	`, employeeColumns), id)

	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete employee: %w", err)
	}
	return emp, nil
}

func (r *EmployeeRepo) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM employees WHERE employee_id = $1)", employeeID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check employee exists: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var emp models.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.EmployeeID,
		&emp.Name,
		&emp.Email,
		&emp.PasswordHash,
		&emp.Role,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

func collectEmployees(rows pgx.Rows) ([]models.Employee, error) {
	var results []models.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		results = append(results, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return results, nil
}
