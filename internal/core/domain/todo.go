package domain

import "time"

type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "PENDING"
	TodoStatusInProgress TodoStatus = "IN_PROGRESS"
	TodoStatusDone       TodoStatus = "DONE"
	TodoStatusCanceled   TodoStatus = "CANCELED"
)

type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "LOW"
	TodoPriorityMedium TodoPriority = "MEDIUM"
	TodoPriorityHigh   TodoPriority = "HIGH"
)

func ParseTodoStatus(s string) (TodoStatus, error) {
	switch TodoStatus(s) {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusDone, TodoStatusCanceled:
		return TodoStatus(s), nil
	default:
		return "", BadRequestf("invalid status: %s", s)
	}
}

func ParseTodoPriority(s string) (TodoPriority, error) {
	switch TodoPriority(s) {
	case TodoPriorityLow, TodoPriorityMedium, TodoPriorityHigh:
		return TodoPriority(s), nil
	default:
		return "", BadRequestf("invalid priority: %s", s)
	}
}

// Todo is a row in the todos table. Parents and children reference each
// other by id only; a non-nil ParentID marks a subtask, and a subtask must
// never itself become a parent.
type Todo struct {
	ID               int64
	UserID           int64
	Title            string `validate:"required,max=255"`
	Description      string `validate:"max=5000"`
	Status           TodoStatus
	Priority         TodoPriority
	DueDate          *time.Time
	RemindAt         *time.Time
	EstimatedMinutes *int
	CategoryID       *int64
	ParentID         *int64
	DeletedAt        *time.Time
	CreatedAt        time.Time
	CreatedBy        int64
	UpdatedAt        time.Time
	UpdatedBy        int64
}

func (t *Todo) IsDeleted() bool {
	return t.DeletedAt != nil
}

func (t *Todo) IsSubtask() bool {
	return t.ParentID != nil
}

func (t *Todo) BelongsTo(userID int64) bool {
	return t.UserID == userID
}
