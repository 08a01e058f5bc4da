package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nityamhjn05/feedback-systems/internal/services"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

type AuthHandler struct {
	auth  *services.AuthService
	reset *services.ResetService
}

type LoginRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type SignupRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
}

type CheckEmployeeRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
}

type ForgotPasswordRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Email      string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func NewAuthHandler(auth *services.AuthService, reset *services.ResetService) *AuthHandler {
	return &AuthHandler{auth: auth, reset: reset}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.EmployeeID, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, resp)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	resp, err := h.auth.Signup(c.Request.Context(), req.EmployeeID, req.Name, req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondCreated(c, resp)
}

func (h *AuthHandler) CheckEmployee(c *gin.Context) {
	var req CheckEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	exists, err := h.auth.CheckEmployee(c.Request.Context(), req.EmployeeID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"exists": exists, "employee_id": req.EmployeeID})
}

// Forgot acknowledges identically whether or not the account exists, so the
// endpoint cannot be used to enumerate employee ids.
func (h *AuthHandler) Forgot(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.reset.Request(c.Request.Context(), req.EmployeeID, req.Email); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"message": "if this employee id exists, a password reset email has been sent"})
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	employeeID, valid, err := h.reset.Verify(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !valid {
		utils.RespondOK(c, gin.H{"valid": false, "message": "invalid or expired token"})
		return
	}

	utils.RespondOK(c, gin.H{"valid": true, "employee_id": employeeID})
}

func (h *AuthHandler) Reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.reset.Reset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset successful"})
}
