package entity

import "time"

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Category    string
	IsCompleted bool
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskPatch struct {
	Title       *string
	Category    *string
	IsCompleted *bool
	Order       *int
}

func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
}
