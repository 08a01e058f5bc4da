package services

import (
	"context"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/repo"
)

// Store interfaces are satisfied by the pgx repos and stubbed in tests.

type EmployeeStore interface {
	Create(ctx context.Context, emp *models.Employee) (*models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	FindByIdentifiers(ctx context.Context, employeeIDs, names []string) ([]models.Employee, error)
	Search(ctx context.Context, term string, limit int) ([]models.Employee, error)
	ListAll(ctx context.Context) ([]models.Employee, error)
	List(ctx context.Context, filters repo.EmployeeFilters) ([]models.Employee, int64, error)
	UpdateProfile(ctx context.Context, id, name, email, passwordHash string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id, role string) (*models.Employee, error)
	Delete(ctx context.Context, id string) (*models.Employee, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
}

type FormStore interface {
	Create(ctx context.Context, form *models.Form) (*models.Form, error)
	GetByID(ctx context.Context, id string) (*models.Form, error)
	Update(ctx context.Context, id, title, description string, questions models.QuestionList) (*models.Form, error)
	ListAll(ctx context.Context) ([]models.Form, error)
	ListByCreator(ctx context.Context, createdBy string) ([]models.Form, error)
	IDsByCreator(ctx context.Context, createdBy string) ([]string, error)
}

type AssignmentStore interface {
	Upsert(ctx context.Context, formID, employeeID string) (bool, error)
	MarkSubmitted(ctx context.Context, formID, employeeID string) error
	ListForEmployee(ctx context.Context, employeeID string, unsubmittedOnly bool) ([]repo.AssignedForm, error)
	ListByFormIDs(ctx context.Context, formIDs []string) ([]repo.AssignmentDetail, error)
	DeleteByEmployee(ctx context.Context, employeeID string) error
	ReconcileSubmitted(ctx context.Context) (int64, error)
}

type ResponseStore interface {
	Create(ctx context.Context, resp *models.Response) (*models.Response, error)
	ListByForm(ctx context.Context, formID string) ([]repo.FormResponse, error)
	CountByFormIDs(ctx context.Context, formIDs []string) (int64, error)
	CountByPair(ctx context.Context, formIDs []string) ([]repo.PairCount, error)
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

type ResetStore interface {
	Create(ctx context.Context, reset *models.PasswordReset) (*models.PasswordReset, error)
	GetActiveByHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error)
	MarkUsed(ctx context.Context, id string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
