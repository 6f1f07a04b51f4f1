package response

import "time"

type UserResponse struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type CategoryResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	OrderIndex int    `json:"order_index"`
}

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type AttachmentResponse struct {
	ID        int64     `json:"id"`
	TodoID    int64     `json:"todo_id"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

type TodoResponse struct {
	ID               int64             `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	Status           string            `json:"status"`
	Priority         string            `json:"priority"`
	DueDate          *time.Time        `json:"due_date,omitempty"`
	RemindAt         *time.Time        `json:"remind_at,omitempty"`
	EstimatedMinutes *int              `json:"estimated_minutes,omitempty"`
	ParentID         *int64            `json:"parent_id,omitempty"`
	Category         *CategoryResponse `json:"category,omitempty"`
	Tags             []TagResponse     `json:"tags,omitempty"`
	DeletedAt        *time.Time        `json:"deleted_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type TodoDetailResponse struct {
	TodoResponse
	Subtasks    []TodoResponse       `json:"subtasks"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// Page is the envelope for every paginated listing. Page is 0-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func NewPage[T any](content []T, page, size int, total int64) *Page[T] {
	pages := 0

	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}

	return &Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

type AdminDashboardStats struct {
	TotalUsers               int64     `json:"total_users"`
	ActiveUsers              int64     `json:"active_users"`
	InactiveUsers            int64     `json:"inactive_users"`
	TotalTodos               int64     `json:"total_todos"`
	PendingTodos             int64     `json:"pending_todos"`
	InProgressTodos          int64     `json:"in_progress_todos"`
	CompletedTodos           int64     `json:"completed_todos"`
	CanceledTodos            int64     `json:"canceled_todos"`
	TotalCategories          int64     `json:"total_categories"`
	TotalTags                int64     `json:"total_tags"`
	TodosCreatedToday        int64     `json:"todos_created_today"`
	UsersRegisteredToday     int64     `json:"users_registered_today"`
	UsersRegisteredThisWeek  int64     `json:"users_registered_this_week"`
	UsersRegisteredThisMonth int64     `json:"users_registered_this_month"`
	LastUpdated              time.Time `json:"last_updated"`
}

type AdminUserResponse struct {
	UserResponse
	TotalTodos      int64 `json:"total_todos"`
	CompletedTodos  int64 `json:"completed_todos"`
	PendingTodos    int64 `json:"pending_todos"`
	TotalCategories int64 `json:"total_categories"`
	TotalTags       int64 `json:"total_tags"`
}

type AdminTodoResponse struct {
	TodoResponse
	UserID    int64  `json:"user_id"`
	UserEmail string `json:"user_email"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
