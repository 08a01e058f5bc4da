package services

import (
	"context"
	"io"
	"strings"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

// ImportService is the bulk reconciliation importer: row-independent,
// best-effort create-or-update keyed by company employee id. A bad row is
// recorded and skipped, never aborting the batch, and nothing rolls back.
type ImportService struct {
	employees EmployeeStore
}

type RowError struct {
	Row        int    `json:"row"` // 1-based file line, header included
	EmployeeID string `json:"employee_id,omitempty"`
	Error      string `json:"error"`
}

type ImportResult struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

func NewImportService(employees EmployeeStore) *ImportService {
	return &ImportService{employees: employees}
}

// Import processes a CSV of employeeId,name,password with optional email.
// Rows are naive comma-splits without quoting, matching the format the HR
// export produces.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "could not read file", nil)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimRight(line, "\r"); strings.TrimSpace(trimmed) != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 2 {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR", "file must contain a header row and at least one data row", nil)
	}

	header := splitRow(lines[0])
	for i, h := range header {
		header[i] = strings.ToLower(h)
	}
	idIdx := indexOf(header, "employeeid")
	nameIdx := indexOf(header, "name")
	passIdx := indexOf(header, "password")
	emailIdx := indexOf(header, "email")

	var missing []string
	for _, req := range []struct {
		name string
		idx  int
	}{{"employeeid", idIdx}, {"name", nameIdx}, {"password", passIdx}} {
		if req.idx < 0 {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return nil, utils.NewAppError(400, "VALIDATION_ERROR",
			"missing required columns: "+strings.Join(missing, ", "), nil)
	}

	result := &ImportResult{Errors: []RowError{}}
	for i := 1; i < len(lines); i++ {
		fileRow := i + 1
		values := splitRow(lines[i])

		if len(values) < 3 {
			result.Errors = append(result.Errors, RowError{Row: fileRow, Error: "insufficient columns"})
			continue
		}

		employeeID := valueAt(values, idIdx)
		name := valueAt(values, nameIdx)
		password := valueAt(values, passIdx)
		email := valueAt(values, emailIdx)

		if employeeID == "" || name == "" || password == "" {
			result.Errors = append(result.Errors, RowError{Row: fileRow, Error: "missing required field(s)"})
			continue
		}

		if err := s.applyRow(ctx, employeeID, name, email, password, result); err != nil {
			result.Errors = append(result.Errors, RowError{Row: fileRow, EmployeeID: employeeID, Error: err.Error()})
		}
	}

	return result, nil
}

// applyRow updates in place when the employee id exists (role untouched) and
// creates a USER otherwise.
func (s *ImportService) applyRow(ctx context.Context, employeeID, name, email, password string, result *ImportResult) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	existing, err := s.employees.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return err
	}

	if existing != nil {
		if err := s.employees.UpdateProfile(ctx, existing.ID, name, email, hash); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	_, err = s.employees.Create(ctx, &models.Employee{
		EmployeeID:   employeeID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		return err
	}
	result.Created++
	return nil
}

func splitRow(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}

func valueAt(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}
