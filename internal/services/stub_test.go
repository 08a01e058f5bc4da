package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/repo"
)

// In-memory stand-ins for the pgx repos, shared across the service tests.

type stubEmployees struct {
	byID map[string]*models.Employee
	seq  int
}

func newStubEmployees() *stubEmployees {
	return &stubEmployees{byID: map[string]*models.Employee{}}
}

func (s *stubEmployees) add(emp models.Employee) *models.Employee {
	if emp.ID == "" {
		s.seq++
		emp.ID = fmt.Sprintf("emp-%d", s.seq)
	}
	copy := emp
	s.byID[copy.ID] = &copy
	return &copy
}

func (s *stubEmployees) Create(_ context.Context, emp *models.Employee) (*models.Employee, error) {
	for _, existing := range s.byID {
		if existing.EmployeeID == emp.EmployeeID {
			return nil, errors.New("duplicate employee id")
		}
	}
	return s.add(*emp), nil
}

func (s *stubEmployees) GetByID(_ context.Context, id string) (*models.Employee, error) {
	if emp, ok := s.byID[id]; ok {
		copy := *emp
		return &copy, nil
	}
	return nil, nil
}

func (s *stubEmployees) GetByEmployeeID(_ context.Context, employeeID string) (*models.Employee, error) {
	for _, emp := range s.byID {
		if emp.EmployeeID == employeeID {
			copy := *emp
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *stubEmployees) FindByIdentifiers(_ context.Context, employeeIDs, names []string) ([]models.Employee, error) {
	idSet := toSet(employeeIDs)
	nameSet := toSet(names)
	var out []models.Employee
	for _, emp := range s.byID {
		if _, ok := idSet[emp.EmployeeID]; ok {
			out = append(out, *emp)
			continue
		}
		if _, ok := nameSet[emp.Name]; ok {
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (s *stubEmployees) Search(_ context.Context, term string, limit int) ([]models.Employee, error) {
	var out []models.Employee
	for _, emp := range s.byID {
		if len(out) >= limit {
			break
		}
		if strings.Contains(emp.Name, term) || strings.Contains(emp.EmployeeID, term) {
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (s *stubEmployees) ListAll(_ context.Context) ([]models.Employee, error) {
	var out []models.Employee
	for _, emp := range s.byID {
		out = append(out, *emp)
	}
	return out, nil
}

func (s *stubEmployees) List(_ context.Context, filters repo.EmployeeFilters) ([]models.Employee, int64, error) {
	var out []models.Employee
	for _, emp := range s.byID {
		if filters.Role != "" && emp.Role != filters.Role {
			continue
		}
		out = append(out, *emp)
	}
	return out, int64(len(out)), nil
}

func (s *stubEmployees) UpdateProfile(_ context.Context, id, name, email, passwordHash string) error {
	emp, ok := s.byID[id]
	if !ok {
		return errors.New("employee not found")
	}
	emp.Name = name
	emp.Email = email
	emp.PasswordHash = passwordHash
	return nil
}

func (s *stubEmployees) UpdatePassword(_ context.Context, id, passwordHash string) error {
	emp, ok := s.byID[id]
	if !ok {
		return errors.New("employee not found")
	}
	emp.PasswordHash = passwordHash
	return nil
}

func (s *stubEmployees) UpdateRole(_ context.Context, id, role string) (*models.Employee, error) {
	emp, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	emp.Role = role
	copy := *emp
	return &copy, nil
}

func (s *stubEmployees) Delete(_ context.Context, id string) (*models.Employee, error) {
	emp, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	delete(s.byID, id)
	return emp, nil
}

func (s *stubEmployees) ExistsByEmployeeID(_ context.Context, employeeID string) (bool, error) {
	emp, _ := s.GetByEmployeeID(context.Background(), employeeID)
	return emp != nil, nil
}

type stubForms struct {
	byID map[string]*models.Form
	seq  int
}

func newStubForms() *stubForms {
	return &stubForms{byID: map[string]*models.Form{}}
}

func (s *stubForms) Create(_ context.Context, form *models.Form) (*models.Form, error) {
	if form.ID == "" {
		s.seq++
		form.ID = fmt.Sprintf("form-%d", s.seq)
	}
	copy := *form
	s.byID[copy.ID] = &copy
	return &copy, nil
}

func (s *stubForms) GetByID(_ context.Context, id string) (*models.Form, error) {
	if form, ok := s.byID[id]; ok {
		copy := *form
		return &copy, nil
	}
	return nil, nil
}

func (s *stubForms) Update(_ context.Context, id, title, description string, questions models.QuestionList) (*models.Form, error) {
	form, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	form.Title = title
	form.Description = description
	form.Questions = questions
	copy := *form
	return &copy, nil
}

func (s *stubForms) ListAll(_ context.Context) ([]models.Form, error) {
	var out []models.Form
	for _, form := range s.byID {
		out = append(out, *form)
	}
	return out, nil
}

func (s *stubForms) ListByCreator(_ context.Context, createdBy string) ([]models.Form, error) {
	var out []models.Form
	for _, form := range s.byID {
		if form.CreatedBy == createdBy {
			out = append(out, *form)
		}
	}
	return out, nil
}

func (s *stubForms) IDsByCreator(_ context.Context, createdBy string) ([]string, error) {
	var out []string
	for _, form := range s.byID {
		if form.CreatedBy == createdBy {
			out = append(out, form.ID)
		}
	}
	return out, nil
}

type stubAssignments struct {
	rows      map[string]*models.Assignment // keyed form|employee
	employees *stubEmployees
	responses *stubResponses
}

func newStubAssignments(employees *stubEmployees, responses *stubResponses) *stubAssignments {
	return &stubAssignments{rows: map[string]*models.Assignment{}, employees: employees, responses: responses}
}

func pairKey(formID, employeeID string) string {
	return formID + "|" + employeeID
}

func (s *stubAssignments) Upsert(_ context.Context, formID, employeeID string) (bool, error) {
	key := pairKey(formID, employeeID)
	if _, ok := s.rows[key]; ok {
		return false, nil
	}
	s.rows[key] = &models.Assignment{
		ID:         key,
		FormID:     formID,
		EmployeeID: employeeID,
		AssignedAt: time.Now(),
	}
	return true, nil
}

func (s *stubAssignments) MarkSubmitted(_ context.Context, formID, employeeID string) error {
	if row, ok := s.rows[pairKey(formID, employeeID)]; ok {
		row.Submitted = true
	}
	return nil
}

func (s *stubAssignments) ListForEmployee(_ context.Context, employeeID string, unsubmittedOnly bool) ([]repo.AssignedForm, error) {
	var out []repo.AssignedForm
	for _, row := range s.rows {
		if row.EmployeeID != employeeID {
			continue
		}
		if unsubmittedOnly && row.Submitted {
			continue
		}
		out = append(out, repo.AssignedForm{FormID: row.FormID, Submitted: row.Submitted, AssignedAt: row.AssignedAt})
	}
	return out, nil
}

func (s *stubAssignments) ListByFormIDs(_ context.Context, formIDs []string) ([]repo.AssignmentDetail, error) {
	idSet := toSet(formIDs)
	var out []repo.AssignmentDetail
	for _, row := range s.rows {
		if _, ok := idSet[row.FormID]; !ok {
			continue
		}
		detail := repo.AssignmentDetail{FormID: row.FormID, EmployeeID: row.EmployeeID, Submitted: row.Submitted}
		if emp, _ := s.employees.GetByID(context.Background(), row.EmployeeID); emp != nil {
			detail.EmployeeName = emp.Name
			detail.CompanyID = emp.EmployeeID
		}
		out = append(out, detail)
	}
	return out, nil
}

func (s *stubAssignments) DeleteByEmployee(_ context.Context, employeeID string) error {
	for key, row := range s.rows {
		if row.EmployeeID == employeeID {
			delete(s.rows, key)
		}
	}
	return nil
}

func (s *stubAssignments) ReconcileSubmitted(_ context.Context) (int64, error) {
	var repaired int64
	for _, row := range s.rows {
		if row.Submitted {
			continue
		}
		for _, resp := range s.responses.rows {
			if resp.FormID == row.FormID && resp.EmployeeID == row.EmployeeID {
				row.Submitted = true
				repaired++
				break
			}
		}
	}
	return repaired, nil
}

type stubResponses struct {
	rows []models.Response
	seq  int
}

func newStubResponses() *stubResponses {
	return &stubResponses{}
}

func (s *stubResponses) Create(_ context.Context, resp *models.Response) (*models.Response, error) {
	if resp.ID == "" {
		s.seq++
		resp.ID = fmt.Sprintf("resp-%d", s.seq)
	}
	resp.SubmittedAt = time.Now()
	s.rows = append(s.rows, *resp)
	copy := *resp
	return &copy, nil
}

func (s *stubResponses) ListByForm(_ context.Context, formID string) ([]repo.FormResponse, error) {
	var out []repo.FormResponse
	for _, resp := range s.rows {
		if resp.FormID == formID {
			out = append(out, repo.FormResponse{ID: resp.ID, FormID: resp.FormID, Answers: resp.Answers, SubmittedAt: resp.SubmittedAt})
		}
	}
	return out, nil
}

func (s *stubResponses) CountByFormIDs(_ context.Context, formIDs []string) (int64, error) {
	idSet := toSet(formIDs)
	var total int64
	for _, resp := range s.rows {
		if _, ok := idSet[resp.FormID]; ok {
			total++
		}
	}
	return total, nil
}

func (s *stubResponses) CountByPair(_ context.Context, formIDs []string) ([]repo.PairCount, error) {
	idSet := toSet(formIDs)
	counts := map[string]*repo.PairCount{}
	for _, resp := range s.rows {
		if _, ok := idSet[resp.FormID]; !ok {
			continue
		}
		key := pairKey(resp.FormID, resp.EmployeeID)
		if pc, ok := counts[key]; ok {
			pc.Count++
			continue
		}
		counts[key] = &repo.PairCount{FormID: resp.FormID, EmployeeID: resp.EmployeeID, Count: 1}
	}
	var out []repo.PairCount
	for _, pc := range counts {
		out = append(out, *pc)
	}
	return out, nil
}

func (s *stubResponses) DeleteByEmployee(_ context.Context, employeeID string) error {
	var kept []models.Response
	for _, resp := range s.rows {
		if resp.EmployeeID != employeeID {
			kept = append(kept, resp)
		}
	}
	s.rows = kept
	return nil
}

type stubResets struct {
	byID map[string]*models.PasswordReset
	seq  int
	now  func() time.Time
}

func newStubResets() *stubResets {
	return &stubResets{byID: map[string]*models.PasswordReset{}, now: time.Now}
}

func (s *stubResets) Create(_ context.Context, reset *models.PasswordReset) (*models.PasswordReset, error) {
	if reset.ID == "" {
		s.seq++
		reset.ID = fmt.Sprintf("reset-%d", s.seq)
	}
	copy := *reset
	s.byID[copy.ID] = &copy
	return &copy, nil
}

func (s *stubResets) GetActiveByHash(_ context.Context, tokenHash string) (*models.PasswordReset, error) {
	for _, reset := range s.byID {
		if reset.TokenHash == tokenHash && !reset.Used && reset.ExpiresAt.After(s.now()) {
			copy := *reset
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *stubResets) MarkUsed(_ context.Context, id string) (bool, error) {
	reset, ok := s.byID[id]
	if !ok || reset.Used {
		return false, nil
	}
	reset.Used = true
	now := s.now()
	reset.UsedAt = &now
	return true, nil
}

func (s *stubResets) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	for id, reset := range s.byID {
		if !reset.ExpiresAt.After(s.now()) {
			delete(s.byID, id)
			removed++
		}
	}
	return removed, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
