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

type ResetRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewResetRepo(pool *pgxpool.Pool, timeout time.Duration) *ResetRepo {
	return &ResetRepo{pool: pool, timeout: timeout}
}

func (r *ResetRepo) Create(ctx context.Context, reset *models.PasswordReset) (*models.PasswordReset, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if reset.ID == "" {
		reset.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO password_resets (id, employee_id, token_hash, expires_at, used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`, reset.ID, reset.EmployeeID, reset.TokenHash, reset.ExpiresAt)

	if err := row.Scan(&reset.CreatedAt, &reset.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert password reset: %w", err)
	}
	return reset, nil
}

// GetActiveByHash finds an unused, unexpired entry for the digest. Wrong,
// expired and already-used tokens all come back as (nil, nil) so callers
// cannot leak which case occurred.
func (r *ResetRepo) GetActiveByHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT id, employee_id, token_hash, expires_at, used, used_at, created_at, updated_at
		FROM password_resets
		WHERE token_hash = $1 AND used = FALSE AND expires_at > NOW()
	`, tokenHash)

	var reset models.PasswordReset
	if err := row.Scan(
		&reset.ID,
		&reset.EmployeeID,
		&reset.TokenHash,
		&reset.ExpiresAt,
		&reset.Used,
		&reset.UsedAt,
		&reset.CreatedAt,
		&reset.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active reset token: %w", err)
	}
	return &reset, nil
}

// MarkUsed consumes the entry. The used guard in the WHERE clause makes the
// consume single-use even under concurrent attempts; reports whether this call
// won the row.
func (r *ResetRepo) MarkUsed(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE password_resets SET used = TRUE, used_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND used = FALSE
	`, id)
	if err != nil {
		return false, fmt.Errorf("mark reset token used: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// DeleteExpired is the TTL sweep: expired entries are removed regardless of
// used state.
func (r *ResetRepo) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, "DELETE FROM password_resets WHERE expires_at <= NOW()")
	if err != nil {
		return 0, fmt.Errorf("delete expired reset tokens: %w", err)
	}
	return cmd.RowsAffected(), nil
}
