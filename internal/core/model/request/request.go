package request

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	FullName string `json:"full_name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=100"`
}

// TodoRequest is used by create, update and subtask creation. DueDate,
// RemindAt and EstimatedMinutes follow set-only-if-present semantics on
// update; every other field is a full overwrite, including CategoryID being
// cleared when absent. Status and priority are always required, so an
// update can never silently keep the stored values by omitting them.
// TagIDs absent and TagIDs empty both mean "no tags" after an update.
type TodoRequest struct {
	Title            string     `json:"title" validate:"required,max=255"`
	Description      string     `json:"description" validate:"max=5000"`
	Status           string     `json:"status" validate:"required"`
	Priority         string     `json:"priority" validate:"required"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	RemindAt         *time.Time `json:"remind_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty" validate:"omitempty,min=0"`
	CategoryID       *int64     `json:"category_id,omitempty"`
	TagIDs           []int64    `json:"tag_ids,omitempty"`
}

type UpdateTodoStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CategoryRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Color      string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	OrderIndex int    `json:"order_index,omitempty"`
}

type TagRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type AttachmentRequest struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	FileURL  string `json:"file_url" validate:"required,max=500"`
	FileSize int64  `json:"file_size,omitempty" validate:"omitempty,min=0"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
