package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

// EmployeeGetter is the single lookup the profile endpoint needs; satisfied by
// repo.EmployeeRepo.
type EmployeeGetter interface {
	GetByID(ctx context.Context, id string) (*models.Employee, error)
}

type MeHandler struct {
	employees EmployeeGetter
}

func NewMeHandler(employees EmployeeGetter) *MeHandler {
	return &MeHandler{employees: employees}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, utils.NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", "missing user", nil))
		return
	}

	emp, err := h.employees.GetByID(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not look up employee", nil))
		return
	}
	if emp == nil {
		utils.RespondError(c, utils.NewAppError(http.StatusNotFound, "NOT_FOUND", "employee not found", nil))
		return
	}

	utils.RespondOK(c, gin.H{
		"id":          emp.ID,
		"employee_id": emp.EmployeeID,
		"name":        emp.Name,
		"email":       emp.Email,
		"role":        emp.Role,
		"created_at":  emp.CreatedAt,
	})
}
