package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskvault/internal/adapter/http/helper"
	"taskvault/internal/adapter/http/validation"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
)

// AdminHandler serves the moderation surface. The admin guard middleware
// has already established the caller's authority before any of these run.
type AdminHandler struct {
	svc port.AdminService
}

func NewAdminHandler(svc port.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	data, err := h.svc.DashboardStats(c.Request.Context())

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	data, err := h.svc.ListUsers(c.Request.Context(), c.Query("q"), util.ParsePageRequest(c))

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.svc.GetUser(c.Request.Context(), id)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.UpdateUserStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	data, err := h.svc.UpdateUserStatus(c.Request.Context(), id, req.Status)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.UpdateUserRoleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	data, err := h.svc.UpdateUserRole(c.Request.Context(), id, req.Role)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *AdminHandler) GetTodos(c *gin.Context) {
	data, err := h.svc.ListTodos(c.Request.Context(), c.Query("q"), util.ParsePageRequest(c))

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *AdminHandler) DeleteTodo(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.svc.DeleteTodo(c.Request.Context(), id); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, nil, "Todo permanently deleted")
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, nil, "Category deleted successfully")
}

func (h *AdminHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.svc.DeleteTag(c.Request.Context(), id); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, nil, "Tag deleted successfully")
}
