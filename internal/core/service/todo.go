package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/filter"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
	"taskvault/pkg/tracing"
)

// TodoService owns the todo lifecycle. Every operation is scoped to the
// resolved owner; references to categories and tags are validated against
// the same owner before they are written, and a reference to somebody
// else's row reports not-found rather than forbidden.
type TodoService struct {
	repo       port.TodoRepository
	categories port.CategoryRepository
	tags       port.TagRepository
	files      port.AttachmentRepository
}

func NewTodoService(repo port.TodoRepository, categories port.CategoryRepository, tags port.TagRepository, files port.AttachmentRepository) *TodoService {
	return &TodoService{repo: repo, categories: categories, tags: tags, files: files}
}

func (ts *TodoService) Create(ctx context.Context, ownerID int64, req request.TodoRequest) (*response.TodoResponse, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "service.todo.Create", []attribute.KeyValue{
		attribute.Int64("user.id", ownerID),
	})
	defer span.End()

	todo, err := ts.buildTodo(ctx, ownerID, req)

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, err
	}

	created, err := ts.repo.Create(ctx, todo, req.TagIDs)

	if err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error creating todo", "error", err, "user_id", ownerID)
		return nil, err
	}

	return ts.toResponse(ctx, created)
}

func (ts *TodoService) CreateSubtask(ctx context.Context, ownerID, parentID int64, req request.TodoRequest) (*response.TodoResponse, error) {
	parent, err := ts.repo.GetByIDAndOwner(ctx, parentID, ownerID, false)

	if err != nil {
		return nil, err
	}

	if parent.IsSubtask() {
		return nil, domain.BadRequestf("cannot create a subtask of a subtask")
	}

	todo, err := ts.buildTodo(ctx, ownerID, req)

	if err != nil {
		return nil, err
	}

	todo.ParentID = &parent.ID

	created, err := ts.repo.Create(ctx, todo, req.TagIDs)

	if err != nil {
		return nil, err
	}

	return ts.toResponse(ctx, created)
}

// buildTodo validates the request into a fresh domain row.
func (ts *TodoService) buildTodo(ctx context.Context, ownerID int64, req request.TodoRequest) (domain.Todo, error) {
	status, err := domain.ParseTodoStatus(req.Status)

	if err != nil {
		return domain.Todo{}, err
	}

	priority, err := domain.ParseTodoPriority(req.Priority)

	if err != nil {
		return domain.Todo{}, err
	}

	if err := ts.checkReferences(ctx, ownerID, req.CategoryID, req.TagIDs); err != nil {
		return domain.Todo{}, err
	}

	now := time.Now().UTC()

	return domain.Todo{
		UserID:           ownerID,
		Title:            req.Title,
		Description:      req.Description,
		Status:           status,
		Priority:         priority,
		DueDate:          req.DueDate,
		RemindAt:         req.RemindAt,
		EstimatedMinutes: req.EstimatedMinutes,
		CategoryID:       req.CategoryID,
		CreatedAt:        now,
		CreatedBy:        ownerID,
		UpdatedAt:        now,
		UpdatedBy:        ownerID,
	}, nil
}

// checkReferences verifies that the referenced category and tags exist and
// belong to the owner. A miss surfaces as not-found, leaking nothing about
// other tenants' rows.
func (ts *TodoService) checkReferences(ctx context.Context, ownerID int64, categoryID *int64, tagIDs []int64) error {
	if categoryID != nil {
		if _, err := ts.categories.GetByIDAndOwner(ctx, *categoryID, ownerID); err != nil {
			return err
		}
	}

	for _, tagID := range tagIDs {
		if _, err := ts.tags.GetByIDAndOwner(ctx, tagID, ownerID); err != nil {
			return err
		}
	}

	return nil
}

func (ts *TodoService) Update(ctx context.Context, ownerID, todoID int64, req request.TodoRequest) (*response.TodoResponse, error) {
	todo, err := ts.repo.GetByIDAndOwner(ctx, todoID, ownerID, false)

	if err != nil {
		return nil, err
	}

	status, err := domain.ParseTodoStatus(req.Status)

	if err != nil {
		return nil, err
	}

	priority, err := domain.ParseTodoPriority(req.Priority)

	if err != nil {
		return nil, err
	}

	todo.Status = status
	todo.Priority = priority

	if err := ts.checkReferences(ctx, ownerID, req.CategoryID, req.TagIDs); err != nil {
		return nil, err
	}

	todo.Title = req.Title
	todo.Description = req.Description
	todo.CategoryID = req.CategoryID

	// Set-only-if-present fields keep their stored value when the request
	// omits them.
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}

	if req.RemindAt != nil {
		todo.RemindAt = req.RemindAt
	}

	if req.EstimatedMinutes != nil {
		todo.EstimatedMinutes = req.EstimatedMinutes
	}

	todo.UpdatedAt = time.Now().UTC()
	todo.UpdatedBy = ownerID

	updated, err := ts.repo.Update(ctx, todo, req.TagIDs)

	if err != nil {
		slog.Error("Error updating todo", "error", err, "todo_id", todoID)
		return nil, err
	}

	return ts.toResponse(ctx, updated)
}

func (ts *TodoService) GetByID(ctx context.Context, ownerID, todoID int64) (*response.TodoDetailResponse, error) {
	todo, err := ts.repo.GetByIDAndOwner(ctx, todoID, ownerID, false)

	if err != nil {
		return nil, err
	}

	base, err := ts.toResponse(ctx, todo)

	if err != nil {
		return nil, err
	}

	children, err := ts.repo.ListChildren(ctx, todo.ID)

	if err != nil {
		return nil, err
	}

	subtasks, err := ts.toResponses(ctx, liveOnly(children))

	if err != nil {
		return nil, err
	}

	attachments, err := ts.files.ListByTodo(ctx, todo.ID)

	if err != nil {
		return nil, err
	}

	files := make([]response.AttachmentResponse, 0, len(attachments))

	for _, a := range attachments {
		files = append(files, toAttachmentResponse(a))
	}

	return &response.TodoDetailResponse{
		TodoResponse: *base,
		Subtasks:     subtasks,
		Attachments:  files,
	}, nil
}

func (ts *TodoService) GetAll(ctx context.Context, ownerID int64, page util.PageRequest) (*response.Page[response.TodoResponse], error) {
	todos, total, err := ts.repo.ListActive(ctx, ownerID, page)

	if err != nil {
		return nil, err
	}

	items, err := ts.toResponses(ctx, todos)

	if err != nil {
		return nil, err
	}

	return response.NewPage(items, page.Page, page.Size, total), nil
}

func (ts *TodoService) Search(ctx context.Context, ownerID int64, search filter.TodoSearch, page util.PageRequest) (*response.Page[response.TodoResponse], error) {
	ctx, span := tracing.CreateChildSpan(ctx, "service.todo.Search", []attribute.KeyValue{
		attribute.Int64("user.id", ownerID),
	})
	defer span.End()

	// Unowned category/tag ids are not rejected here: the owner clause
	// already guarantees they match nothing, so the result is an empty page.
	f := filter.FromSearch(ownerID, search)

	todos, total, err := ts.repo.Search(ctx, f, page)

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, err
	}

	items, err := ts.toResponses(ctx, todos)

	if err != nil {
		return nil, err
	}

	return response.NewPage(items, page.Page, page.Size, total), nil
}

// Delete soft-deletes the named todo only; its subtasks stay live and come
// back into view when the parent is restored. Already-deleted rows report
// not-found since the lookup excludes them.
func (ts *TodoService) Delete(ctx context.Context, ownerID, todoID int64) error {
	todo, err := ts.repo.GetByIDAndOwner(ctx, todoID, ownerID, false)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	return ts.repo.SetDeletedAt(ctx, todo.ID, &now, ownerID)
}

// Restore brings a trashed todo back. The lookup includes deleted rows;
// restoring a live one is a bad request, not a no-op.
func (ts *TodoService) Restore(ctx context.Context, ownerID, todoID int64) (*response.TodoResponse, error) {
	todo, err := ts.repo.GetByIDAndOwner(ctx, todoID, ownerID, true)

	if err != nil {
		return nil, err
	}

	if !todo.IsDeleted() {
		return nil, domain.BadRequestf("todo %d is not deleted", todoID)
	}

	if err := ts.repo.SetDeletedAt(ctx, todo.ID, nil, ownerID); err != nil {
		return nil, err
	}

	// Re-read so the response carries the audit fields the restore wrote.
	restored, err := ts.repo.GetByIDAndOwner(ctx, todo.ID, ownerID, false)

	if err != nil {
		return nil, err
	}

	return ts.toResponse(ctx, restored)
}

func (ts *TodoService) GetTrashed(ctx context.Context, ownerID int64, page util.PageRequest) (*response.Page[response.TodoResponse], error) {
	todos, total, err := ts.repo.ListTrashed(ctx, ownerID, page)

	if err != nil {
		return nil, err
	}

	items, err := ts.toResponses(ctx, todos)

	if err != nil {
		return nil, err
	}

	return response.NewPage(items, page.Page, page.Size, total), nil
}

func (ts *TodoService) UpdateStatus(ctx context.Context, ownerID, todoID int64, status domain.TodoStatus) (*response.TodoResponse, error) {
	todo, err := ts.repo.GetByIDAndOwner(ctx, todoID, ownerID, false)

	if err != nil {
		return nil, err
	}

	if err := ts.repo.UpdateStatus(ctx, todo.ID, status, ownerID); err != nil {
		return nil, err
	}

	todo.Status = status

	return ts.toResponse(ctx, todo)
}

func (ts *TodoService) GetSubtasks(ctx context.Context, ownerID, parentID int64) ([]response.TodoResponse, error) {
	parent, err := ts.repo.GetByIDAndOwner(ctx, parentID, ownerID, false)

	if err != nil {
		return nil, err
	}

	children, err := ts.repo.ListChildren(ctx, parent.ID)

	if err != nil {
		return nil, err
	}

	return ts.toResponses(ctx, liveOnly(children))
}

// liveOnly drops soft-deleted rows; subtask listings never surface trashed
// children even though ListChildren fetches them.
func liveOnly(todos []domain.Todo) []domain.Todo {
	live := make([]domain.Todo, 0, len(todos))

	for _, todo := range todos {
		if todo.IsDeleted() {
			continue
		}

		live = append(live, todo)
	}

	return live
}

// GetStatistics counts active todos per working status. CANCELED rows are
// neither counted nor totaled; TOTAL_ACTIVE is the sum of the three
// reported buckets.
func (ts *TodoService) GetStatistics(ctx context.Context, ownerID int64) (map[string]int64, error) {
	stats := make(map[string]int64, 4)

	var total int64

	for _, status := range []domain.TodoStatus{
		domain.TodoStatusPending,
		domain.TodoStatusInProgress,
		domain.TodoStatusDone,
	} {
		count, err := ts.repo.CountByOwnerAndStatus(ctx, ownerID, status)

		if err != nil {
			return nil, err
		}

		stats[string(status)] = count
		total += count
	}

	stats["TOTAL_ACTIVE"] = total

	return stats, nil
}

func (ts *TodoService) toResponses(ctx context.Context, todos []domain.Todo) ([]response.TodoResponse, error) {
	items := make([]response.TodoResponse, 0, len(todos))

	if len(todos) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(todos))

	for _, todo := range todos {
		ids = append(ids, todo.ID)
	}

	tagsByTodo, err := ts.repo.TagsForTodos(ctx, ids)

	if err != nil {
		return nil, err
	}

	categories := map[int64]*response.CategoryResponse{}

	for _, todo := range todos {
		item := baseTodoResponse(todo)

		if todo.CategoryID != nil {
			cached, ok := categories[*todo.CategoryID]

			if !ok {
				category, err := ts.categories.GetByID(ctx, *todo.CategoryID)

				if err != nil {
					return nil, err
				}

				cached = toCategoryResponse(category)
				categories[*todo.CategoryID] = cached
			}

			item.Category = cached
		}

		for _, tag := range tagsByTodo[todo.ID] {
			item.Tags = append(item.Tags, toTagResponse(tag))
		}

		items = append(items, item)
	}

	return items, nil
}

func (ts *TodoService) toResponse(ctx context.Context, todo domain.Todo) (*response.TodoResponse, error) {
	items, err := ts.toResponses(ctx, []domain.Todo{todo})

	if err != nil {
		return nil, err
	}

	return &items[0], nil
}

func baseTodoResponse(todo domain.Todo) response.TodoResponse {
	return response.TodoResponse{
		ID:               todo.ID,
		Title:            todo.Title,
		Description:      todo.Description,
		Status:           string(todo.Status),
		Priority:         string(todo.Priority),
		DueDate:          todo.DueDate,
		RemindAt:         todo.RemindAt,
		EstimatedMinutes: todo.EstimatedMinutes,
		ParentID:         todo.ParentID,
		DeletedAt:        todo.DeletedAt,
		CreatedAt:        todo.CreatedAt,
		UpdatedAt:        todo.UpdatedAt,
	}
}

func toCategoryResponse(category domain.Category) *response.CategoryResponse {
	return &response.CategoryResponse{
		ID:         category.ID,
		Name:       category.Name,
		Color:      category.Color,
		OrderIndex: category.OrderIndex,
	}
}

func toTagResponse(tag domain.Tag) response.TagResponse {
	return response.TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	}
}

func toAttachmentResponse(a domain.Attachment) response.AttachmentResponse {
	return response.AttachmentResponse{
		ID:        a.ID,
		TodoID:    a.TodoID,
		FileName:  a.FileName,
		FileURL:   a.FileURL,
		FileSize:  a.FileSize,
		CreatedAt: a.CreatedAt,
	}
}
