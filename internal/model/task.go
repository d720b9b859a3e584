package model

import "time"

// Priority ranks a task from low (1) to high (3).
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// Valid reports whether p is within the supported range.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// Task represents a single item in the planner.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Reminder    *time.Time `json:"reminder,omitempty"`
	CategoryID  *string    `json:"categoryId,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Priority    Priority   `json:"priority"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// SetCompleted flips the completion flag and keeps CompletedAt in sync with it.
// It reports whether the task transitioned from open to done.
func (t *Task) SetCompleted(done bool, now time.Time) bool {
	if t.Completed == done {
		return false
	}
	t.Completed = done
	if done {
		at := now
		t.CompletedAt = &at
		return true
	}
	t.CompletedAt = nil
	return false
}

// InCategory reports whether the task references the given category.
func (t Task) InCategory(categoryID string) bool {
	return t.CategoryID != nil && *t.CategoryID == categoryID
}

// Normalize repairs fields a stored record may be missing: a done task
// without CompletedAt is treated as done when it was created, and an
// unknown priority becomes medium.
func (t *Task) Normalize() {
	switch {
	case t.Completed && t.CompletedAt == nil:
		at := t.CreatedAt
		t.CompletedAt = &at
	case !t.Completed:
		t.CompletedAt = nil
	}
	if !t.Priority.Valid() {
		t.Priority = PriorityMedium
	}
}
