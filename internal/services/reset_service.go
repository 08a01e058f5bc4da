package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/nityamhjn05/feedback-systems/internal/config"
	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/notify"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

// ResetService is the single-use reset-token ledger. Only the SHA-256 digest
// of a secret is stored; lookups happen by digest, which is why the token hash
// is not bcrypt like passwords are.
type ResetService struct {
	employees  EmployeeStore
	resets     ResetStore
	dispatcher *notify.Dispatcher
	cfg        *config.Config

	now       func() time.Time
	newSecret func() (string, error)
}

func NewResetService(employees EmployeeStore, resets ResetStore, dispatcher *notify.Dispatcher, cfg *config.Config) *ResetService {
	return &ResetService{
		employees:  employees,
		resets:     resets,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        time.Now,
		newSecret:  randomSecret,
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Request issues a reset token and emails the plaintext secret. An unknown
// employee id returns nil so the handler's acknowledgement stays identical
// whether or not the account exists.
func (s *ResetService) Request(ctx context.Context, employeeID, email string) error {
	if employeeID == "" {
		return utils.NewAppError(400, "VALIDATION_ERROR", "employee id is required", nil)
	}

	emp, err := s.employees.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return utils.NewAppError(500, "INTERNAL_ERROR", "could not look up employee", nil)
	}
	if emp == nil {
		return nil
	}

	if email != "" && emp.Email != "" && emp.Email != email {
		return utils.NewAppError(400, "VALIDATION_ERROR", "email does not match our records", nil)
	}
	if emp.Email == "" {
		return utils.NewAppError(400, "VALIDATION_ERROR",
			"no email associated with this account, contact your administrator", nil)
	}

	secret, err := s.newSecret()
	if err != nil {
		return utils.NewAppError(500, "INTERNAL_ERROR", "could not generate token", nil)
	}

	_, err = s.resets.Create(ctx, &models.PasswordReset{
		EmployeeID: emp.EmployeeID,
		TokenHash:  hashToken(secret),
		ExpiresAt:  s.now().Add(s.cfg.ResetTokenTTL),
	})
	if err != nil {
		return utils.NewAppError(500, "INTERNAL_ERROR", "could not store reset token", nil)
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", s.cfg.FrontendURL, secret)
	s.dispatcher.Dispatch(notify.PasswordResetMessage(emp.Email, emp.Name, resetLink))

	return nil
}

// Verify reports whether the plaintext token matches an unused, unexpired
// ledger entry. Wrong, expired and already-used all look the same to the
// caller.
func (s *ResetService) Verify(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	record, err := s.resets.GetActiveByHash(ctx, hashToken(token))
	if err != nil {
		return "", false, utils.NewAppError(500, "INTERNAL_ERROR", "could not verify token", nil)
	}
	if record == nil {
		return "", false, nil
	}
	return record.EmployeeID, true, nil
}

// Reset consumes a token: the ledger entry is claimed first, then the password
// changes. Claiming before the write means a consume that loses the race never
// touches the password. Sibling tokens issued for the same employee stay valid.
func (s *ResetService) Reset(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return utils.NewAppError(400, "VALIDATION_ERROR", "token and new password are required", nil)
	}
	if len(newPassword) < s.cfg.PasswordMinLen {
		return utils.NewAppError(400, "VALIDATION_ERROR",
			fmt.Sprintf("password must be at least %d characters", s.cfg.PasswordMinLen), nil)
	}

	record, err := s.resets.GetActiveByHash(ctx, hashToken(token))
	if err != nil {
		return utils.NewAppError(500, "INTERNAL_ERROR", "could not verify token", nil)
	}
	if record == nil {
		return utils.NewAppError(400, "INVALID_TOKEN", "invalid or expired token", nil)
	}

	emp, err := s.employees.GetByEmployeeID(ctx, record.EmployeeID)
	if err != nil {
		return utils.NewAppError(500, "INTERNAL_ERROR", "could not look up employee", nil)
	}
	if emp == nil {
		return utils.NewAppError(404, "NOT_FOUND", "employee not found", nil)
	}

	won, err := s.resets.MarkUsed(ctx, record.ID)
	if err != nil {
		return utils.NewAppError(500, "INTERNAL_ERROR", "could not consume token", nil)
	}
	if !won {
		// A concurrent consume claimed the token between the lookup and
		// here; this caller lost.
		return utils.NewAppError(400, "INVALID_TOKEN", "invalid or expired token", nil)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return utils.NewAppError(500, "INTERNAL_ERROR", "could not secure password", nil)
	}
	if err := s.employees.UpdatePassword(ctx, emp.ID, hash); err != nil {
		return utils.NewAppError(500, "INTERNAL_ERROR", "could not update password", nil)
	}

	if emp.Email != "" {
		s.dispatcher.Dispatch(notify.PasswordResetSuccessMessage(emp.Email, emp.Name))
	}

	return nil
}

// StartJanitor runs the TTL sweep on a ticker until ctx is cancelled. Expired
// entries are removed regardless of used state.
func (s *ResetService) StartJanitor(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.resets.DeleteExpired(ctx)
			if err != nil {
				logger.Error("reset token sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Debug("reset token sweep", "removed", removed)
			}
		}
	}
}
