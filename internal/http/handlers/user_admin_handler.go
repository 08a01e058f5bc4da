package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nityamhjn05/feedback-systems/internal/services"
	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

// UserAdminHandler exposes administrator-only user management: listing,
// deletion, role changes and the CSV bulk import.
type UserAdminHandler struct {
	users    *services.UserService
	importer *services.ImportService
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func NewUserAdminHandler(users *services.UserService, importer *services.ImportService) *UserAdminHandler {
	return &UserAdminHandler{users: users, importer: importer}
}

func (h *UserAdminHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := h.users.List(c.Request.Context(), c.Query("role"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, list)
}

func (h *UserAdminHandler) Delete(c *gin.Context) {
	deleted, err := h.users.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"message":      "user deleted successfully",
		"deleted_user": deleted,
	})
}

func (h *UserAdminHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	updated, err := h.users.ChangeRole(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"message": "role updated successfully",
		"user":    updated,
	})
}

const maxImportSize = 5 << 20

func (h *UserAdminHandler) BulkUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, utils.NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", "no file uploaded", nil))
		return
	}
	if fileHeader.Size > maxImportSize {
		utils.RespondError(c, utils.NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", "file exceeds 5MB limit", nil))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		utils.RespondError(c, utils.NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", "only csv files are allowed", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, utils.NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", "could not read file", nil))
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"message": "bulk upload completed",
		"results": result,
	})
}
