package service

import (
	"context"
	"time"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/response"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
)

// AdminService aggregates across all tenants. It trusts the route boundary
// to have verified admin authority and never applies owner scoping.
type AdminService struct {
	users      port.UserRepository
	todos      port.TodoRepository
	categories port.CategoryRepository
	tags       port.TagRepository
}

func NewAdminService(users port.UserRepository, todos port.TodoRepository, categories port.CategoryRepository, tags port.TagRepository) *AdminService {
	return &AdminService{users: users, todos: todos, categories: categories, tags: tags}
}

func (s *AdminService) DashboardStats(ctx context.Context) (*response.AdminDashboardStats, error) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfWeek := startOfDay.AddDate(0, 0, -int(startOfDay.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &response.AdminDashboardStats{LastUpdated: now}

	counters := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&stats.TotalUsers, s.users.CountAll},
		{&stats.ActiveUsers, countUserStatus(s.users, domain.UserStatusActive)},
		{&stats.InactiveUsers, countUserStatus(s.users, domain.UserStatusInactive)},
		{&stats.TotalTodos, s.todos.CountAll},
		{&stats.PendingTodos, countTodoStatus(s.todos, domain.TodoStatusPending)},
		{&stats.InProgressTodos, countTodoStatus(s.todos, domain.TodoStatusInProgress)},
		{&stats.CompletedTodos, countTodoStatus(s.todos, domain.TodoStatusDone)},
		{&stats.CanceledTodos, countTodoStatus(s.todos, domain.TodoStatusCanceled)},
		{&stats.TotalCategories, s.categories.CountAll},
		{&stats.TotalTags, s.tags.CountAll},
	}

	for _, c := range counters {
		n, err := c.count(ctx)

		if err != nil {
			return nil, err
		}

		*c.dst = n
	}

	var err error

	if stats.TodosCreatedToday, err = s.todos.CountCreatedBetween(ctx, startOfDay, now); err != nil {
		return nil, err
	}

	if stats.UsersRegisteredToday, err = s.users.CountCreatedBetween(ctx, startOfDay, now); err != nil {
		return nil, err
	}

	if stats.UsersRegisteredThisWeek, err = s.users.CountCreatedBetween(ctx, startOfWeek, now); err != nil {
		return nil, err
	}

	if stats.UsersRegisteredThisMonth, err = s.users.CountCreatedBetween(ctx, startOfMonth, now); err != nil {
		return nil, err
	}

	return stats, nil
}

func countUserStatus(repo port.UserRepository, status domain.UserStatus) func(context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		return repo.CountByStatus(ctx, status)
	}
}

func countTodoStatus(repo port.TodoRepository, status domain.TodoStatus) func(context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		return repo.CountByStatus(ctx, status)
	}
}

func (s *AdminService) ListUsers(ctx context.Context, search string, page util.PageRequest) (*response.Page[response.AdminUserResponse], error) {
	users, total, err := s.users.ListAll(ctx, search, page)

	if err != nil {
		return nil, err
	}

	items := make([]response.AdminUserResponse, 0, len(users))

	for _, user := range users {
		item, err := s.decorateUser(ctx, user)

		if err != nil {
			return nil, err
		}

		items = append(items, *item)
	}

	return response.NewPage(items, page.Page, page.Size, total), nil
}

func (s *AdminService) GetUser(ctx context.Context, userID int64) (*response.AdminUserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)

	if err != nil {
		return nil, err
	}

	return s.decorateUser(ctx, user)
}

func (s *AdminService) decorateUser(ctx context.Context, user domain.User) (*response.AdminUserResponse, error) {
	item := response.AdminUserResponse{UserResponse: toUserResponse(user)}

	var err error

	if item.TotalTodos, err = s.todos.CountByOwner(ctx, user.ID); err != nil {
		return nil, err
	}

	if item.CompletedTodos, err = s.todos.CountByOwnerAndStatus(ctx, user.ID, domain.TodoStatusDone); err != nil {
		return nil, err
	}

	if item.PendingTodos, err = s.todos.CountByOwnerAndStatus(ctx, user.ID, domain.TodoStatusPending); err != nil {
		return nil, err
	}

	if item.TotalCategories, err = s.categories.CountByOwner(ctx, user.ID); err != nil {
		return nil, err
	}

	if item.TotalTags, err = s.tags.CountByOwner(ctx, user.ID); err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *AdminService) UpdateUserStatus(ctx context.Context, userID int64, status string) (*response.AdminUserResponse, error) {
	parsed, err := domain.ParseUserStatus(status)

	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateStatus(ctx, userID, parsed)

	if err != nil {
		return nil, err
	}

	return s.decorateUser(ctx, user)
}

func (s *AdminService) UpdateUserRole(ctx context.Context, userID int64, role string) (*response.AdminUserResponse, error) {
	parsed, err := domain.ParseRole(role)

	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateRole(ctx, userID, parsed)

	if err != nil {
		return nil, err
	}

	return s.decorateUser(ctx, user)
}

func (s *AdminService) ListTodos(ctx context.Context, search string, page util.PageRequest) (*response.Page[response.AdminTodoResponse], error) {
	todos, total, err := s.todos.ListAll(ctx, search, page)

	if err != nil {
		return nil, err
	}

	emails := map[int64]string{}
	items := make([]response.AdminTodoResponse, 0, len(todos))

	for _, todo := range todos {
		email, ok := emails[todo.UserID]

		if !ok {
			owner, err := s.users.GetByID(ctx, todo.UserID)

			if err != nil {
				return nil, err
			}

			email = owner.Email
			emails[todo.UserID] = email
		}

		items = append(items, response.AdminTodoResponse{
			TodoResponse: baseTodoResponse(todo),
			UserID:       todo.UserID,
			UserEmail:    email,
		})
	}

	return response.NewPage(items, page.Page, page.Size, total), nil
}

// DeleteTodo is the moderation path: a hard delete removing the row, its
// subtasks, attachments and tag links for good.
func (s *AdminService) DeleteTodo(ctx context.Context, todoID int64) error {
	return s.todos.HardDelete(ctx, todoID)
}

func (s *AdminService) DeleteCategory(ctx context.Context, categoryID int64) error {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return err
	}

	return s.categories.Delete(ctx, categoryID)
}

func (s *AdminService) DeleteTag(ctx context.Context, tagID int64) error {
	if _, err := s.tags.GetByID(ctx, tagID); err != nil {
		return err
	}

	return s.tags.Delete(ctx, tagID)
}
