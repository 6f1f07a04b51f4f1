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

type TagHandler struct {
	svc   port.TagService
	cache *shared.ResponseCache
}

func NewTagHandler(svc port.TagService, cache *shared.ResponseCache) *TagHandler {
	return &TagHandler{svc: svc, cache: cache}
}

func (h *TagHandler) invalidate(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), "/api/tags", auth.UserID(c))
	}
}

func (h *TagHandler) GetAllTags(c *gin.Context) {
	data, err := h.svc.GetAll(c.Request.Context(), auth.UserID(c))

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *TagHandler) GetTag(c *gin.Context) {
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

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req request.TagRequest

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

func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.TagRequest

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

func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusOK, nil, "Tag deleted successfully")
}
