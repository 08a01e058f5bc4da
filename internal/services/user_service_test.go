package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

type userFixture struct {
	svc         *UserService
	employees   *stubEmployees
	assignments *stubAssignments
	responses   *stubResponses
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	employees := newStubEmployees()
	responses := newStubResponses()
	assignments := newStubAssignments(employees, responses)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewUserService(employees, assignments, responses, logger)
	return &userFixture{svc: svc, employees: employees, assignments: assignments, responses: responses}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestDeleteRefusesSelf(t *testing.T) {
	f := newUserFixture(t)
	root := f.employees.add(models.Employee{EmployeeID: "ROOT", Name: "Root", Role: models.RoleAdministrator})

	_, err := f.svc.Delete(context.Background(), root.ID, root.ID)
	if code := appErrCode(t, err); code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", code)
	}
	if _, ok := f.employees.byID[root.ID]; !ok {
		t.Fatalf("self-delete went through")
	}
}

func TestDeleteCascadesAssignmentsAndResponses(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	root := f.employees.add(models.Employee{EmployeeID: "ROOT", Name: "Root", Role: models.RoleAdministrator})
	target := f.employees.add(models.Employee{EmployeeID: "EMP1", Name: "Target"})
	other := f.employees.add(models.Employee{EmployeeID: "EMP2", Name: "Other"})

	f.assignments.Upsert(ctx, "form-1", target.ID)
	f.assignments.Upsert(ctx, "form-1", other.ID)
	f.responses.Create(ctx, &models.Response{FormID: "form-1", EmployeeID: target.ID})
	f.responses.Create(ctx, &models.Response{FormID: "form-1", EmployeeID: other.ID})

	ref, err := f.svc.Delete(ctx, root.ID, target.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if ref.EmployeeID != "EMP1" {
		t.Fatalf("unexpected deleted ref: %+v", ref)
	}
	if len(f.assignments.rows) != 1 || len(f.responses.rows) != 1 {
		t.Fatalf("cascade missed rows: assignments=%d responses=%d", len(f.assignments.rows), len(f.responses.rows))
	}
	if f.assignments.rows[pairKey("form-1", other.ID)] == nil {
		t.Fatalf("cascade removed another employee's assignment")
	}
}

func TestDeleteUnknownUser(t *testing.T) {
	f := newUserFixture(t)
	root := f.employees.add(models.Employee{EmployeeID: "ROOT", Name: "Root", Role: models.RoleAdministrator})

	_, err := f.svc.Delete(context.Background(), root.ID, "missing")
	if code := appErrCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}

func TestChangeRoleValidation(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	root := f.employees.add(models.Employee{EmployeeID: "ROOT", Name: "Root", Role: models.RoleAdministrator})
	emp := f.employees.add(models.Employee{EmployeeID: "EMP1", Name: "One"})

	if _, err := f.svc.ChangeRole(ctx, root.ID, emp.ID, "SUPERUSER"); err == nil {
		t.Fatalf("expected error for unknown role")
	}

	_, err := f.svc.ChangeRole(ctx, root.ID, root.ID, models.RoleUser)
	if code := appErrCode(t, err); code != "VALIDATION_ERROR" {
		t.Fatalf("expected self-demotion rejection, got %s", code)
	}

	// Re-asserting one's own ADMINISTRATOR role is a no-op, not an error.
	if _, err := f.svc.ChangeRole(ctx, root.ID, root.ID, models.RoleAdministrator); err != nil {
		t.Fatalf("self role reassert failed: %v", err)
	}

	updated, err := f.svc.ChangeRole(ctx, root.ID, emp.ID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if updated.Role != models.RoleAdmin {
		t.Fatalf("role not persisted: %+v", updated)
	}
}

func TestListIgnoresInvalidRoleFilter(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.employees.add(models.Employee{EmployeeID: "EMP1", Name: "One", Role: models.RoleUser})
	f.employees.add(models.Employee{EmployeeID: "ADM1", Name: "Admin", Role: models.RoleAdmin})

	list, err := f.svc.List(ctx, "WIZARD", 1, 50)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list.Users) != 2 {
		t.Fatalf("invalid filter should match everyone, got %d users", len(list.Users))
	}

	admins, err := f.svc.List(ctx, models.RoleAdmin, 1, 50)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(admins.Users) != 1 || admins.Users[0].Role != models.RoleAdmin {
		t.Fatalf("role filter not applied: %+v", admins.Users)
	}
}

func TestSearchDefaultsAndEmptyTerm(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.employees.add(models.Employee{EmployeeID: "EMP1", Name: "Alice"})

	results, err := f.svc.Search(ctx, "", 5)
	if err != nil || results != nil {
		t.Fatalf("empty term should yield nothing, got %v %v", results, err)
	}

	results, err = f.svc.Search(ctx, "Ali", 0)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one match, got %d", len(results))
	}
}
