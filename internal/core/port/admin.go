package port

import (
	"context"

	"taskvault/internal/core/model/response"
	"taskvault/internal/core/util"
)

// AdminService runs unscoped. Admin authority is verified at the route
// boundary, not here.
type AdminService interface {
	DashboardStats(ctx context.Context) (*response.AdminDashboardStats, error)
	ListUsers(ctx context.Context, search string, page util.PageRequest) (*response.Page[response.AdminUserResponse], error)
	GetUser(ctx context.Context, userID int64) (*response.AdminUserResponse, error)
	UpdateUserStatus(ctx context.Context, userID int64, status string) (*response.AdminUserResponse, error)
	UpdateUserRole(ctx context.Context, userID int64, role string) (*response.AdminUserResponse, error)
	ListTodos(ctx context.Context, search string, page util.PageRequest) (*response.Page[response.AdminTodoResponse], error)
	DeleteTodo(ctx context.Context, todoID int64) error
	DeleteCategory(ctx context.Context, categoryID int64) error
	DeleteTag(ctx context.Context, tagID int64) error
}
