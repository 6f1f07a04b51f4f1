// Package factory builds populated domain values for tests. Fabricator
// fills the scalar fields with generated data; the helpers then pin the
// fields the schema and services care about.
package factory

import (
	"fmt"
	"sync/atomic"
	"time"

	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"

	"taskvault/internal/core/domain"
)

// DefaultPassword is the plaintext behind every factory-built user.
const DefaultPassword = "12345678"

var sequence atomic.Int64

func NewUser(customData ...map[string]any) domain.User {
	user := fab.New(domain.User{}).Build(customData...)

	user.ID = 0
	user.Email = fmt.Sprintf("user%d@example.com", sequence.Add(1))
	user.Role = domain.RoleUser
	user.Status = domain.UserStatusActive
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = time.Now().UTC()

	hashed, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	user.Password = string(hashed)

	applyUserOverrides(&user, customData...)

	return user
}

func applyUserOverrides(user *domain.User, customData ...map[string]any) {
	for _, data := range customData {
		if v, ok := data["Email"].(string); ok {
			user.Email = v
		}

		if v, ok := data["Role"].(domain.Role); ok {
			user.Role = v
		}

		if v, ok := data["Status"].(domain.UserStatus); ok {
			user.Status = v
		}

		if v, ok := data["Password"].(string); ok {
			hashed, _ := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
			user.Password = string(hashed)
		}
	}
}

func NewTodo(ownerID int64, customData ...map[string]any) domain.Todo {
	todo := fab.New(domain.Todo{}).Build(customData...)

	todo.ID = 0
	todo.UserID = ownerID
	todo.Status = domain.TodoStatusPending
	todo.Priority = domain.TodoPriorityMedium
	todo.DueDate = nil
	todo.RemindAt = nil
	todo.EstimatedMinutes = nil
	todo.CategoryID = nil
	todo.ParentID = nil
	todo.DeletedAt = nil
	todo.CreatedAt = time.Now().UTC()
	todo.CreatedBy = ownerID
	todo.UpdatedAt = time.Now().UTC()
	todo.UpdatedBy = ownerID

	for _, data := range customData {
		if v, ok := data["Title"].(string); ok {
			todo.Title = v
		}

		if v, ok := data["Status"].(domain.TodoStatus); ok {
			todo.Status = v
		}

		if v, ok := data["Priority"].(domain.TodoPriority); ok {
			todo.Priority = v
		}

		if v, ok := data["DueDate"].(*time.Time); ok {
			todo.DueDate = v
		}

		if v, ok := data["CategoryID"].(*int64); ok {
			todo.CategoryID = v
		}

		if v, ok := data["ParentID"].(*int64); ok {
			todo.ParentID = v
		}
	}

	return todo
}

func NewCategory(ownerID int64, customData ...map[string]any) domain.Category {
	category := fab.New(domain.Category{}).Build(customData...)

	category.ID = 0
	category.UserID = ownerID
	category.Name = fmt.Sprintf("category-%d", sequence.Add(1))
	category.Color = "#ff0000"
	category.OrderIndex = 0
	category.CreatedAt = time.Now().UTC()
	category.UpdatedAt = time.Now().UTC()

	for _, data := range customData {
		if v, ok := data["Name"].(string); ok {
			category.Name = v
		}

		if v, ok := data["OrderIndex"].(int); ok {
			category.OrderIndex = v
		}
	}

	return category
}

func NewTag(ownerID int64, customData ...map[string]any) domain.Tag {
	tag := fab.New(domain.Tag{}).Build(customData...)

	tag.ID = 0
	tag.UserID = ownerID
	tag.Name = fmt.Sprintf("tag-%d", sequence.Add(1))
	tag.Color = "#00ff00"
	tag.CreatedAt = time.Now().UTC()
	tag.UpdatedAt = time.Now().UTC()

	for _, data := range customData {
		if v, ok := data["Name"].(string); ok {
			tag.Name = v
		}
	}

	return tag
}
