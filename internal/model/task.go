package model

import "time"

// TaskCategory determines the XP reward of a task. The reward is always
// derived from the category server-side, never accepted from the client.
type TaskCategory string

const (
	CategoryTodo  TaskCategory = "todo"
	CategoryHabit TaskCategory = "habit"
)

// Valid reports whether the category is a known value.
func (c TaskCategory) Valid() bool {
	return c == CategoryTodo || c == CategoryHabit
}

// Reward returns the XP value for the category.
func (c TaskCategory) Reward() int {
	if c == CategoryHabit {
		return 50
	}
	return 25
}

// TaskStatus represents the completion state of a task.
// in_progress is bookkeeping only; it never participates in XP changes.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is a known value.
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	UserID      uint         `json:"user_id" gorm:"not null;index"`
	Title       string       `json:"title" gorm:"type:text;not null"`
	Description *string      `json:"description,omitempty" gorm:"type:text"`
	Category    TaskCategory `json:"category" gorm:"type:varchar(16);not null"`
	XPValue     int          `json:"xp_value" gorm:"not null"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:task_tags;constraint:OnDelete:CASCADE"`
}
