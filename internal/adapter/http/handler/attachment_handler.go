package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskvault/internal/adapter/http/helper"
	"taskvault/internal/adapter/http/validation"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/port"
	"taskvault/pkg/auth"
)

type AttachmentHandler struct {
	svc port.AttachmentService
}

func NewAttachmentHandler(svc port.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

func (h *AttachmentHandler) AddAttachment(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.AttachmentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	data, err := h.svc.Add(c.Request.Context(), auth.UserID(c), todoID, req)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, data)
}

func (h *AttachmentHandler) GetAttachments(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.svc.ListByTodo(c.Request.Context(), auth.UserID(c), todoID)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	attachmentID, ok := pathID(c, "attachmentId")

	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), attachmentID); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, nil, "Attachment deleted successfully")
}
