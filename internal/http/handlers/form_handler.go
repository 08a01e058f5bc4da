package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/services"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

type FormHandler struct {
	forms *services.FormService
	users *services.UserService
}

type FormRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Questions   []models.Question `json:"questions" binding:"required"`
}

// StringList accepts either a JSON array of strings or a single
// comma-separated string, the two shapes assignment clients send.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if strings.TrimSpace(single) == "" {
		*l = nil
		return nil
	}
	for _, part := range strings.Split(single, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			*l = append(*l, trimmed)
		}
	}
	return nil
}

type AssignRequest struct {
	EmployeeIDs   StringList `json:"employee_ids"`
	EmployeeNames StringList `json:"employee_names"`
}

func NewFormHandler(forms *services.FormService, users *services.UserService) *FormHandler {
	return &FormHandler{forms: forms, users: users}
}

func (h *FormHandler) Create(c *gin.Context) {
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	form, err := h.forms.Create(c.Request.Context(), c.GetString("user_id"), req.Title, req.Description, req.Questions)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondCreated(c, form)
}

func (h *FormHandler) Update(c *gin.Context) {
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	form, err := h.forms.Update(c.Request.Context(),
		c.GetString("user_id"), c.GetString("role"), c.Param("formId"),
		req.Title, req.Description, req.Questions)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, form)
}

func (h *FormHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	result, err := h.forms.Assign(c.Request.Context(),
		c.GetString("user_id"), c.Param("formId"), req.EmployeeIDs, req.EmployeeNames)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"message":           "form assigned successfully",
		"matched_employees": result.Matched,
		"count":             result.Count,
	})
}

// List is the unscoped oversight view.
func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.forms.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, forms)
}

func (h *FormHandler) MyForms(c *gin.Context) {
	forms, err := h.forms.MyForms(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, forms)
}

func (h *FormHandler) MyAnalytics(c *gin.Context) {
	analytics, err := h.forms.MyAnalytics(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, analytics)
}

// AssignedForms lists unsubmitted forms assigned to the calling admin.
func (h *FormHandler) AssignedForms(c *gin.Context) {
	forms, err := h.forms.AssignedForms(c.Request.Context(), c.GetString("user_id"), true)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"forms": forms})
}

func (h *FormHandler) Responses(c *gin.Context) {
	responses, err := h.forms.FormResponses(c.Request.Context(),
		c.GetString("user_id"), c.GetString("role"), c.Param("formId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, responses)
}

func (h *FormHandler) SearchEmployees(c *gin.Context) {
	employees, err := h.users.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")), 10)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"employees": employees})
}

func (h *FormHandler) AllEmployees(c *gin.Context) {
	employees, err := h.users.All(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"employees": employees})
}
