package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"taskvault/internal/adapter/http/helper"
	"taskvault/internal/adapter/http/validation"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/filter"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
	"taskvault/internal/shared"
	"taskvault/pkg/auth"
	"taskvault/pkg/tracing"
)

type TodoHandler struct {
	svc    port.TodoService
	cache  *shared.ResponseCache
	Logger *shared.LokiLogger
}

func NewTodoHandler(svc port.TodoService, cache *shared.ResponseCache, logger *shared.LokiLogger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		cache:  cache,
		Logger: logger,
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)

	if err != nil || id <= 0 {
		helper.SendBadRequestError(c, name, "Invalid identifier")
		return 0, false
	}

	return id, true
}

func (h *TodoHandler) invalidate(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), "/api/todos", auth.UserID(c))
	}
}

func (h *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.todo.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	userID := auth.UserID(c)
	page := util.ParsePageRequest(c)

	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int("page.number", page.Page),
		attribute.Int("page.size", page.Size),
	)

	data, err := h.svc.GetAll(ctx, userID, page)

	if err != nil {
		tracing.AddSpanError(span, err)

		h.Logger.ErrorWithTrace(ctx, "Failed to get todos",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)

		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) SearchTodos(c *gin.Context) {
	ctx := c.Request.Context()

	search, err := parseTodoSearch(c)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	data, err := h.svc.Search(ctx, auth.UserID(c), search, util.ParsePageRequest(c))

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

// parseTodoSearch turns the query string into search conditions. Anything
// absent stays nil and contributes no filter clause.
func parseTodoSearch(c *gin.Context) (filter.TodoSearch, error) {
	search := filter.TodoSearch{Query: c.Query("q")}

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseTodoStatus(raw)

		if err != nil {
			return filter.TodoSearch{}, err
		}

		search.Status = &status
	}

	if raw := c.Query("priority"); raw != "" {
		priority, err := domain.ParseTodoPriority(raw)

		if err != nil {
			return filter.TodoSearch{}, err
		}

		search.Priority = &priority
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)

		if err != nil {
			return filter.TodoSearch{}, domain.BadRequestf("invalid category_id: %s", raw)
		}

		search.CategoryID = &id
	}

	if raw := c.Query("tag_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)

			if err != nil {
				return filter.TodoSearch{}, domain.BadRequestf("invalid tag_ids: %s", raw)
			}

			search.TagIDs = append(search.TagIDs, id)
		}
	}

	if raw := c.Query("due_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)

		if err != nil {
			return filter.TodoSearch{}, domain.BadRequestf("invalid due_from: %s", raw)
		}

		search.DueFrom = &from
	}

	if raw := c.Query("due_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)

		if err != nil {
			return filter.TodoSearch{}, domain.BadRequestf("invalid due_to: %s", raw)
		}

		search.DueTo = &to
	}

	return search, nil
}

func (h *TodoHandler) GetTodo(c *gin.Context) {
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

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.todo.CreateTodo", []attribute.KeyValue{
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	var req request.TodoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	data, err := h.svc.Create(ctx, auth.UserID(c), req)

	if err != nil {
		tracing.AddSpanError(span, err)
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusCreated, data)
}

func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.TodoRequest

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

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusOK, nil, "Todo moved to trash")
}

func (h *TodoHandler) RestoreTodo(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.svc.Restore(c.Request.Context(), auth.UserID(c), id)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) GetTrash(c *gin.Context) {
	data, err := h.svc.GetTrashed(c.Request.Context(), auth.UserID(c), util.ParsePageRequest(c))

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) UpdateTodoStatus(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.UpdateTodoStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	status, err := domain.ParseTodoStatus(req.Status)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	data, err := h.svc.UpdateStatus(c.Request.Context(), auth.UserID(c), id, status)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) CreateSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.TodoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(req); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	data, err := h.svc.CreateSubtask(c.Request.Context(), auth.UserID(c), id, req)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	h.invalidate(c)
	helper.SendSuccess(c, http.StatusCreated, data)
}

func (h *TodoHandler) GetSubtasks(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.svc.GetSubtasks(c.Request.Context(), auth.UserID(c), id)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) GetStatistics(c *gin.Context) {
	data, err := h.svc.GetStatistics(c.Request.Context(), auth.UserID(c))

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, data)
}
