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

const formColumns = "id, title, description, questions, created_by, created_at, updated_at"

type FormRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewFormRepo(pool *pgxpool.Pool, timeout time.Duration) *FormRepo {
	return &FormRepo{pool: pool, timeout: timeout}
}

func (r *FormRepo) Create(ctx context.Context, form *models.Form) (*models.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO forms (id, title, description, questions, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`, form.ID, form.Title, form.Description, form.Questions, form.CreatedBy)

	if err := row.Scan(&form.CreatedAt, &form.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert form: %w", err)
	}
	return form, nil
}

func (r *FormRepo) GetByID(ctx context.Context, id string) (*models.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM forms WHERE id = $1
	`, formColumns), id)

	form, err := scanForm(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get form: %w", err)
	}
	return form, nil
}

func (r *FormRepo) Update(ctx context.Context, id, title, description string, questions models.QuestionList) (*models.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE forms SET title = $1, description = $2, questions = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING %s
	`, formColumns), title, description, questions, id)

	form, err := scanForm(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update form: %w", err)
	}
	return form, nil
}

func (r *FormRepo) ListAll(ctx context.Context) ([]models.Form, error) {
	return r.list(ctx, "", nil)
}

func (r *FormRepo) ListByCreator(ctx context.Context, createdBy string) ([]models.Form, error) {
	return r.list(ctx, "WHERE created_by = $1", []any{createdBy})
}

func (r *FormRepo) list(ctx context.Context, whereSQL string, args []any) ([]models.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM forms %s ORDER BY created_at DESC
	`, formColumns, whereSQL), args...)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var results []models.Form
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		results = append(results, *form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forms: %w", err)
	}
	return results, nil
}

// IDsByCreator returns the form-id set used to scope assignment and response
// queries to one creator.
func (r *FormRepo) IDsByCreator(ctx context.Context, createdBy string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, "SELECT id FROM forms WHERE created_by = $1", createdBy)
	if err != nil {
		return nil, fmt.Errorf("list form ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan form id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate form ids: %w", err)
	}
	return ids, nil
}

func scanForm(row rowScanner) (*models.Form, error) {
	var form models.Form
	if err := row.Scan(
		&form.ID,
		&form.Title,
		&form.Description,
		&form.Questions,
		&form.CreatedBy,
		&form.CreatedAt,
		&form.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &form, nil
}
