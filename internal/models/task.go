package models

import (
	"fmt"
	"time"
)

// Status is the task lifecycle state as the backend spells it.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (expected PENDING, IN_PROGRESS or COMPLETED)", s)
	}
	return st, nil
}

// Task mirrors the backend wire representation. A zero ID means the task
// has never been persisted; once assigned the ID never changes.
type Task struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreateDate  time.Time `json:"createDate"`
	DeadLine    time.Time `json:"deadLine"`
	AssignedTo  int64     `json:"assignedTo"`
}

func (t Task) Persisted() bool {
	return t.ID != 0
}
