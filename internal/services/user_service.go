package services

import (
	"context"
	"log/slog"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/repo"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

// UserService covers administrator-level user management plus the employee
// lookups the assignment screens use.
type UserService struct {
	employees   EmployeeStore
	assignments AssignmentStore
	responses   ResponseStore
	logger      *slog.Logger
}

type UserList struct {
	Users      []models.Employee `json:"users"`
	Pagination utils.Pagination  `json:"pagination"`
}

func NewUserService(employees EmployeeStore, assignments AssignmentStore, responses ResponseStore, logger *slog.Logger) *UserService {
	return &UserService{employees: employees, assignments: assignments, responses: responses, logger: logger}
}

func (s *UserService) List(ctx context.Context, role string, page, perPage int) (*UserList, error) {
	if role != "" && !models.ValidRole(role) {
		role = ""
	}

	users, total, err := s.employees.List(ctx, repo.EmployeeFilters{Role: role, Page: page, PerPage: perPage})
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not list users", nil)
	}

	return &UserList{Users: users, Pagination: utils.NewPagination(page, perPage, total)}, nil
}

// Delete removes an employee and then clears their assignments and responses.
// The cleanup runs as separate statements; a failure there is logged and the
// delete stands.
func (s *UserService) Delete(ctx context.Context, callerID, targetID string) (*EmployeeRef, error) {
	if callerID == targetID {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "cannot delete your own account", nil)
	}

	deleted, err := s.employees.Delete(ctx, targetID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not delete user", nil)
	}
	if deleted == nil {
		return nil, utils.NewAppError(404, "NOT_FOUND", "user not found", nil)
	}

	if err := s.assignments.DeleteByEmployee(ctx, targetID); err != nil {
		s.logger.Error("cascade delete of assignments failed", "employee", targetID, "error", err)
	}
	if err := s.responses.DeleteByEmployee(ctx, targetID); err != nil {
		s.logger.Error("cascade delete of responses failed", "employee", targetID, "error", err)
	}

	return &EmployeeRef{EmployeeID: deleted.EmployeeID, Name: deleted.Name}, nil
}

func (s *UserService) ChangeRole(ctx context.Context, callerID, targetID, role string) (*models.Employee, error) {
	if !models.ValidRole(role) {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "invalid role, must be USER, ADMIN, or ADMINISTRATOR", nil)
	}
	if callerID == targetID && role != models.RoleAdministrator {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "cannot change your own role", nil)
	}

	updated, err := s.employees.UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not update role", nil)
	}
	if updated == nil {
		return nil, utils.NewAppError(404, "NOT_FOUND", "user not found", nil)
	}
	return updated, nil
}

func (s *UserService) Search(ctx context.Context, term string, limit int) ([]models.Employee, error) {
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	employees, err := s.employees.Search(ctx, term, limit)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not search employees", nil)
	}
	return employees, nil
}

func (s *UserService) All(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not list employees", nil)
	}
	return employees, nil
}
