package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/nityamhjn05/feedback-systems/internal/models"
)

// EnsureSeedAdministrator creates the bootstrap ADMINISTRATOR account when it
// does not exist yet. A blank employee id or password disables seeding.
func EnsureSeedAdministrator(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration, employeeID, name, password string) error {
	if employeeID == "" || password == "" {
		return nil
	}

	exists, err := employeeExists(ctx, pool, timeout, employeeID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	ctxInsert, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err = pool.Exec(ctxInsert, `
		INSERT INTO employees (id, employee_id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, '', $4, $5, NOW(), NOW())
	`, uuid.NewString(), employeeID, name, string(hash), models.RoleAdministrator)
	if err != nil {
		return fmt.Errorf("insert seed administrator %s: %w", employeeID, err)
	}

	return nil
}

func employeeExists(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration, employeeID string) (bool, error) {
	ctxCheck, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	row := pool.QueryRow(ctxCheck, "SELECT EXISTS(SELECT 1 FROM employees WHERE employee_id = $1)", employeeID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check employee exists: %w", err)
	}
	return exists, nil
}
