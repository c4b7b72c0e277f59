package stubserver

import (
	"time"
)

type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Status      string    `json:"status" gorm:"not null;default:'PENDING'"`
	CreateDate  time.Time `json:"createDate"`
	DeadLine    time.Time `json:"deadLine"`
	AssignedTo  int64     `json:"assignedTo" gorm:"index;not null"`
}

// pageResponse is the page shape the client consumes.
type pageResponse struct {
	Content       []Task `json:"content"`
	TotalElements int64  `json:"totalElements"`
	Number        int    `json:"number"`
	Size          int    `json:"size"`
}
