package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/services"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

type ResponseHandler struct {
	forms *services.FormService
}

type SubmitRequest struct {
	Answers []models.Answer `json:"answers" binding:"required"`
}

func NewResponseHandler(forms *services.FormService) *ResponseHandler {
	return &ResponseHandler{forms: forms}
}

func (h *ResponseHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	resp, err := h.forms.Submit(c.Request.Context(), c.GetString("user_id"), c.Param("formId"), req.Answers)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondCreated(c, gin.H{
		"message":  "response submitted successfully",
		"response": resp,
	})
}

// MyForms lists every form assigned to the calling employee, submitted or not.
func (h *ResponseHandler) MyForms(c *gin.Context) {
	forms, err := h.forms.AssignedForms(c.Request.Context(), c.GetString("user_id"), false)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, forms)
}
