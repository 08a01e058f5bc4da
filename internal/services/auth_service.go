package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nityamhjn05/feedback-systems/internal/config"
	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

type AuthService struct {
	employees EmployeeStore
	cfg       *config.Config

	now func() time.Time
}

// Claims is the bearer token payload: internal id, company id and role.
// Verification is stateless, so a token stays valid for its full lifetime even
// if the role changes or the account is deleted in between.
type Claims struct {
	UserID     string `json:"user_id"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type TokenResponse struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
}

func NewAuthService(employees EmployeeStore, cfg *config.Config) *AuthService {
	return &AuthService{employees: employees, cfg: cfg, now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, employeeID, password string) (*TokenResponse, error) {
	emp, err := s.employees.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not look up employee", nil)
	}
	if emp == nil || !CheckPassword(emp.PasswordHash, password) {
		return nil, utils.NewAppError(401, "UNAUTHORIZED", "invalid credentials", nil)
	}

	token, err := s.GenerateToken(emp)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not generate token", nil)
	}

	return &TokenResponse{Token: token, Role: emp.Role, EmployeeID: emp.EmployeeID, Name: emp.Name}, nil
}

func (s *AuthService) Signup(ctx context.Context, employeeID, name, email, password string) (*TokenResponse, error) {
	if employeeID == "" || name == "" || password == "" {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "employee id, name, and password are required", nil)
	}
	if len(password) < s.cfg.PasswordMinLen {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR",
			fmt.Sprintf("password must be at least %d characters", s.cfg.PasswordMinLen), nil)
	}

	exists, err := s.employees.ExistsByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not check existing employees", nil)
	}
	if exists {
		return nil, utils.NewAppError(409, "CONFLICT", "employee id already exists", nil)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not secure password", nil)
	}

	emp, err := s.employees.Create(ctx, &models.Employee{
		EmployeeID:   employeeID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not create employee", nil)
	}

	token, err := s.GenerateToken(emp)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not generate token", nil)
	}

	return &TokenResponse{Token: token, Role: emp.Role, EmployeeID: emp.EmployeeID, Name: emp.Name}, nil
}

// CheckEmployee backs the dynamic signup flow: it only reveals whether the
// company id is already registered.
func (s *AuthService) CheckEmployee(ctx context.Context, employeeID string) (bool, error) {
	if employeeID == "" {
		return false, utils.NewAppError(400, "VALIDATION_ERROR", "employee id is required", nil)
	}
	exists, err := s.employees.ExistsByEmployeeID(ctx, employeeID)
	if err != nil {
		return false, utils.NewAppError(500, "INTERNAL_ERROR", "could not check employee", nil)
	}
	return exists, nil
}

func (s *AuthService) GenerateToken(emp *models.Employee) (string, error) {
	issuedAt := s.now()
	claims := Claims{
		UserID:     emp.ID,
		EmployeeID: emp.EmployeeID,
		Role:       emp.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.cfg.JWTExpiry)),
			Subject:   emp.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
