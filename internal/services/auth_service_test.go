package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nityamhjn05/feedback-systems/internal/config"
	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		JWTExpiry:      8 * time.Hour,
		ResetTokenTTL:  time.Hour,
		PasswordMinLen: 4,
		FrontendURL:    "http://localhost:5173",
	}
}

func TestSignupAndLogin(t *testing.T) {
	employees := newStubEmployees()
	svc := NewAuthService(employees, testConfig())
	ctx := context.Background()

	resp, err := svc.Signup(ctx, "EMP100", "Asha Rao", "asha@example.com", "secret1")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if resp.Role != models.RoleUser {
		t.Fatalf("expected default USER role, got %q", resp.Role)
	}
	if resp.Token == "" {
		t.Fatalf("expected token in signup response")
	}

	login, err := svc.Login(ctx, "EMP100", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if login.EmployeeID != "EMP100" || login.Name != "Asha Rao" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	if _, err := svc.Login(ctx, "EMP100", "wrong"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := svc.Login(ctx, "EMP999", "secret1"); err == nil {
		t.Fatalf("expected error for unknown employee")
	}
}

func TestSignupConflictLeavesOriginalUntouched(t *testing.T) {
	employees := newStubEmployees()
	svc := NewAuthService(employees, testConfig())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "EMP100", "Asha Rao", "", "secret1"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(ctx, "EMP100", "Impostor", "", "other99")
	appErr, ok := err.(*utils.AppError)
	if !ok || appErr.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	emp, _ := employees.GetByEmployeeID(ctx, "EMP100")
	if emp.Name != "Asha Rao" {
		t.Fatalf("original record changed after conflict: %+v", emp)
	}
	if !CheckPassword(emp.PasswordHash, "secret1") {
		t.Fatalf("original password no longer verifies after conflict")
	}
}

func TestTokenCarriesIdentityAndRole(t *testing.T) {
	employees := newStubEmployees()
	cfg := testConfig()
	svc := NewAuthService(employees, cfg)

	emp := employees.add(models.Employee{EmployeeID: "EMP200", Name: "Admin", Role: models.RoleAdmin})
	signed, err := svc.GenerateToken(emp)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	token, err := jwt.ParseWithClaims(signed, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	claims := token.Claims.(*Claims)
	if claims.UserID != emp.ID || claims.EmployeeID != "EMP200" || claims.Role != models.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.After(time.Now().Add(7 * time.Hour)) {
		t.Fatalf("expected 8 hour expiry, got %v", claims.ExpiresAt)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	employees := newStubEmployees()
	cfg := testConfig()
	svc := NewAuthService(employees, cfg)
	svc.now = func() time.Time { return time.Now().Add(-9 * time.Hour) }

	emp := employees.add(models.Employee{EmployeeID: "EMP201", Name: "Stale"})
	signed, err := svc.GenerateToken(emp)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	token, err := jwt.ParseWithClaims(signed, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err == nil && token.Valid {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestPasswordChangeInvalidatesPriorPlaintexts(t *testing.T) {
	first, err := HashPassword("first-secret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("second-secret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct salted hashes")
	}
	if !CheckPassword(first, "first-secret") || CheckPassword(first, "second-secret") {
		t.Fatalf("first hash verifies the wrong plaintext")
	}
	if !CheckPassword(second, "second-secret") || CheckPassword(second, "first-secret") {
		t.Fatalf("second hash verifies the wrong plaintext")
	}

	// Re-hashing the same plaintext salts freshly.
	again, err := HashPassword("first-secret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if again == first {
		t.Fatalf("expected a fresh salt on re-hash")
	}
}

func TestCheckEmployee(t *testing.T) {
	employees := newStubEmployees()
	svc := NewAuthService(employees, testConfig())
	ctx := context.Background()

	employees.add(models.Employee{EmployeeID: "EMP300", Name: "Known"})

	exists, err := svc.CheckEmployee(ctx, "EMP300")
	if err != nil || !exists {
		t.Fatalf("expected EMP300 to exist, got exists=%v err=%v", exists, err)
	}
	exists, err = svc.CheckEmployee(ctx, "EMP999")
	if err != nil || exists {
		t.Fatalf("expected EMP999 to be absent, got exists=%v err=%v", exists, err)
	}
	if _, err := svc.CheckEmployee(ctx, ""); err == nil {
		t.Fatalf("expected validation error for empty employee id")
	}
}
