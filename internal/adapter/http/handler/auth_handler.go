package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskvault/internal/adapter/http/helper"
	"taskvault/internal/adapter/http/validation"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/port"
)

type AuthHandler struct {
	svc port.AuthService
}

func NewAuthHandler(svc port.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	auth, err := h.svc.Register(c.Request.Context(), req)

	if err != nil {
		slog.Error("Error registering user", "error", err)
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, auth)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	auth, err := h.svc.Login(c.Request.Context(), req)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, auth)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	auth, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, auth)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req request.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, nil, "Logged out successfully")
}
