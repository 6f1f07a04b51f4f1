package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskvault/internal/adapter/http/helper"
	"taskvault/internal/adapter/http/validation"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/port"
	"taskvault/internal/shared"
	"taskvault/pkg/auth"
)

type CategoryHandler struct {
	svc   port.CategoryService
	cache *shared.ResponseCache
}

func NewCategoryHandler(svc port.CategoryService, cache *shared.ResponseCache) *CategoryHandler {
	return &CategoryHandler{svc: svc, cache: cache}
}

func (h *CategoryHandler) invalidate(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), "/api/categories", auth.UserID(c))
	}
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	data, err := h.svc.GetAll(c.Request.Context(), auth.UserID(c))

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.svc.GetByID(c.Request.Context(), auth.UserID(c), id)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	data, err := h.svc.Create(c.Request.Context(), auth.UserID(c), req)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusCreated, data)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.CategoryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	data, err := h.svc.Update(c.Request.Context(), auth.UserID(c), id, req)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusOK, nil, "Category deleted successfully")
}
