package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/notify"
	"github.com/nityamhjn05/feedback-systems/internal/repo"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

// FormService is the assignment engine: form authoring, the
// unassigned → assigned → submitted state machine, per-creator scoped views
// and the analytics aggregation over them.
type FormService struct {
	forms       FormStore
	assignments AssignmentStore
	responses   ResponseStore
	employees   EmployeeStore
	dispatcher  *notify.Dispatcher
	frontendURL string
	logger      *slog.Logger
}

type EmployeeRef struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
}

type AssignResult struct {
	Matched []EmployeeRef `json:"matched_employees"`
	Count   int           `json:"count"`
}

type EmployeeStat struct {
	EmployeeID     string `json:"employee_id"`
	Name           string `json:"name"`
	AssignedForms  int    `json:"assigned_forms"`
	CompletedForms int    `json:"completed_forms"`
}

type AnalyticsResult struct {
	TotalForms     int            `json:"total_forms"`
	TotalResponses int64          `json:"total_responses"`
	EmployeeStats  []EmployeeStat `json:"employee_stats"`
}

func NewFormService(forms FormStore, assignments AssignmentStore, responses ResponseStore, employees EmployeeStore, dispatcher *notify.Dispatcher, frontendURL string, logger *slog.Logger) *FormService {
	return &FormService{
		forms:       forms,
		assignments: assignments,
		responses:   responses,
		employees:   employees,
		dispatcher:  dispatcher,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func (s *FormService) Create(ctx context.Context, createdBy, title, description string, questions []models.Question) (*models.Form, error) {
	if err := validateQuestions(title, questions); err != nil {
		return nil, err
	}
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}

	form, err := s.forms.Create(ctx, &models.Form{
		Title:       title,
		Description: description,
		Questions:   questions,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not create form", nil)
	}
	return form, nil
}

func (s *FormService) Update(ctx context.Context, callerID, callerRole, formID, title, description string, questions []models.Question) (*models.Form, error) {
	if err := validateQuestions(title, questions); err != nil {
		return nil, err
	}

	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not look up form", nil)
	}
	if form == nil {
		return nil, utils.NewAppError(404, "NOT_FOUND", "form not found", nil)
	}
	if form.CreatedBy != callerID && callerRole != models.RoleAdministrator {
		return nil, utils.NewAppError(403, "FORBIDDEN", "form belongs to another admin", nil)
	}

	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}

	updated, err := s.forms.Update(ctx, formID, title, description, questions)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not update form", nil)
	}
	if updated == nil {
		return nil, utils.NewAppError(404, "NOT_FOUND", "form not found", nil)
	}
	return updated, nil
}

func validateQuestions(title string, questions []models.Question) error {
	if title == "" || len(questions) == 0 {
		return utils.NewAppError(400, "VALIDATION_ERROR", "title and questions are required", nil)
	}
	for i, q := range questions {
		if q.Text == "" {
			return utils.NewAppError(400, "VALIDATION_ERROR", fmt.Sprintf("question %d has no text", i+1), nil)
		}
		if !models.ValidQuestionType(q.Type) {
			return utils.NewAppError(400, "VALIDATION_ERROR", fmt.Sprintf("question %d has unknown type %q", i+1, q.Type), nil)
		}
		if q.Type == models.QuestionMCQ && len(q.Options) == 0 {
			return utils.NewAppError(400, "VALIDATION_ERROR", fmt.Sprintf("question %d is mcq but has no options", i+1), nil)
		}
		if q.Type != models.QuestionMCQ && len(q.Options) > 0 {
			return utils.NewAppError(400, "VALIDATION_ERROR", fmt.Sprintf("question %d is not mcq but has options", i+1), nil)
		}
	}
	return nil
}

// ListAll is the unscoped oversight view.
func (s *FormService) ListAll(ctx context.Context) ([]models.Form, error) {
	forms, err := s.forms.ListAll(ctx)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not list forms", nil)
	}
	return forms, nil
}

// MyForms scopes to forms the caller authored.
func (s *FormService) MyForms(ctx context.Context, callerID string) ([]models.Form, error) {
	forms, err := s.forms.ListByCreator(ctx, callerID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not list forms", nil)
	}
	return forms, nil
}

// Assign resolves a mixed batch of company ids and names to employees and
// upserts one assignment per match. Replays and overlapping identifiers are
// absorbed by the (form, employee) uniqueness constraint; a submitted
// assignment is never reset.
func (s *FormService) Assign(ctx context.Context, callerID, formID string, employeeIDs, names []string) (*AssignResult, error) {
	employeeIDs = dedupe(employeeIDs)
	names = dedupe(names)
	if len(employeeIDs) == 0 && len(names) == 0 {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "employee ids or names are required", nil)
	}

	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not look up form", nil)
	}
	if form == nil {
		return nil, utils.NewAppError(404, "NOT_FOUND", "form not found", nil)
	}

	matched, err := s.employees.FindByIdentifiers(ctx, employeeIDs, names)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not resolve employees", nil)
	}
	if len(matched) == 0 {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "no matching employees found", nil)
	}

	result := &AssignResult{}
	for _, emp := range matched {
		if _, err := s.assignments.Upsert(ctx, formID, emp.ID); err != nil {
			return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not save assignment", nil)
		}
		result.Matched = append(result.Matched, EmployeeRef{EmployeeID: emp.EmployeeID, Name: emp.Name})
		result.Count++
	}

	s.notifyAssigned(ctx, callerID, form, matched)

	return result, nil
}

func (s *FormService) notifyAssigned(ctx context.Context, callerID string, form *models.Form, matched []models.Employee) {
	admin, err := s.employees.GetByID(ctx, callerID)
	if err != nil {
		s.logger.Error("could not load assigning admin for notification", "error", err)
	}
	replyTo := ""
	if admin != nil {
		replyTo = admin.Email
	}

	formLink := s.frontendURL + "/user"
	for _, emp := range matched {
		if emp.Email == "" {
			continue
		}
		s.dispatcher.Dispatch(notify.FormAssignmentMessage(
			emp.Email, replyTo, emp.Name, form.Title, form.Description, formLink))
	}
}

// Submit records the response, then flips the assignment flag. The two writes
// are deliberately separate; a crash between them is healed by Reconcile, and
// a submission without a prior assignment still records its response.
func (s *FormService) Submit(ctx context.Context, employeeID, formID string, answers []models.Answer) (*models.Response, error) {
	if len(answers) == 0 {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "answers are required", nil)
	}

	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not look up form", nil)
	}
	if form == nil {
		return nil, utils.NewAppError(404, "NOT_FOUND", "form not found", nil)
	}

	resp, err := s.responses.Create(ctx, &models.Response{
		FormID:     formID,
		EmployeeID: employeeID,
		Answers:    answers,
	})
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not save response", nil)
	}

	if err := s.assignments.MarkSubmitted(ctx, formID, employeeID); err != nil {
		// The response is durable; the flag is derived state and the
		// reconciliation pass recomputes it.
		s.logger.Error("could not mark assignment submitted", "form_id", formID, "employee_id", employeeID, "error", err)
	}

	s.notifySubmitted(ctx, form, employeeID)

	return resp, nil
}

func (s *FormService) notifySubmitted(ctx context.Context, form *models.Form, submitterID string) {
	if form.CreatedBy == "" {
		return
	}
	admin, err := s.employees.GetByID(ctx, form.CreatedBy)
	if err != nil || admin == nil || admin.Email == "" {
		if err != nil {
			s.logger.Error("could not load form creator for notification", "error", err)
		}
		return
	}
	submitter, err := s.employees.GetByID(ctx, submitterID)
	if err != nil {
		s.logger.Error("could not load submitter for notification", "error", err)
	}
	submitterName, replyTo := "An employee", ""
	if submitter != nil {
		submitterName = submitter.Name
		replyTo = submitter.Email
	}

	responseLink := fmt.Sprintf("%s/admin/forms/%s/responses", s.frontendURL, form.ID)
	s.dispatcher.Dispatch(notify.ResponseSubmittedMessage(
		admin.Email, replyTo, admin.Name, submitterName, form.Title, responseLink))
}

// AssignedForms lists the forms assigned to one employee, joined with author
// info for the dashboard.
func (s *FormService) AssignedForms(ctx context.Context, employeeID string, unsubmittedOnly bool) ([]repo.AssignedForm, error) {
	forms, err := s.assignments.ListForEmployee(ctx, employeeID, unsubmittedOnly)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not list assigned forms", nil)
	}
	return forms, nil
}

// FormResponses lists submissions for a form; visible to the form's creator
// and to ADMINISTRATOR oversight.
func (s *FormService) FormResponses(ctx context.Context, callerID, callerRole, formID string) ([]repo.FormResponse, error) {
	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not look up form", nil)
	}
	if form == nil {
		return nil, utils.NewAppError(404, "NOT_FOUND", "form not found", nil)
	}
	if form.CreatedBy != callerID && callerRole != models.RoleAdministrator {
		return nil, utils.NewAppError(403, "FORBIDDEN", "form belongs to another admin", nil)
	}

	responses, err := s.responses.ListByForm(ctx, formID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not list responses", nil)
	}
	return responses, nil
}

// MyAnalytics aggregates over the caller's forms only: per assignment, match
// the response count for its (form, employee) pair, then merge duplicate
// employees so each appears once with summed counts.
func (s *FormService) MyAnalytics(ctx context.Context, callerID string) (*AnalyticsResult, error) {
	formIDs, err := s.forms.IDsByCreator(ctx, callerID)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not list forms", nil)
	}

	totalResponses, err := s.responses.CountByFormIDs(ctx, formIDs)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not count responses", nil)
	}

	details, err := s.assignments.ListByFormIDs(ctx, formIDs)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not list assignments", nil)
	}

	pairCounts, err := s.responses.CountByPair(ctx, formIDs)
	if err != nil {
		return nil, utils.NewAppError(500, "INTERNAL_ERROR", "could not count responses", nil)
	}
	counts := make(map[string]int, len(pairCounts))
	for _, pc := range pairCounts {
		counts[pc.FormID+"|"+pc.EmployeeID] = pc.Count
	}

	merged := make(map[string]*EmployeeStat)
	for _, d := range details {
		stat, ok := merged[d.CompanyID]
		if !ok {
			stat = &EmployeeStat{EmployeeID: d.CompanyID, Name: d.EmployeeName}
			merged[d.CompanyID] = stat
		}
		stat.AssignedForms++
		stat.CompletedForms += counts[d.FormID+"|"+d.EmployeeID]
	}

	stats := make([]EmployeeStat, 0, len(merged))
	for _, stat := range merged {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].EmployeeID < stats[j].EmployeeID })

	return &AnalyticsResult{
		TotalForms:     len(formIDs),
		TotalResponses: totalResponses,
		EmployeeStats:  stats,
	}, nil
}

// Reconcile recomputes submitted flags from response existence. Run at
// startup to repair submissions interrupted between the two writes.
func (s *FormService) Reconcile(ctx context.Context) (int64, error) {
	return s.assignments.ReconcileSubmitted(ctx)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
