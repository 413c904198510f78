package models

import "time"

// Task statuses offered by the client UI. The storage layer accepts any
// string; these are the labels the editor presents.
const (
	StatusPending   = "Pending"
	StatusActive    = "Active"
	StatusCompleted = "Completed"
	StatusDelayed   = "Delayed"
)

type Task struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Status      string    `json:"status" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"<-:create"`
}

func Statuses() []string {
	return []string{StatusPending, StatusActive, StatusCompleted, StatusDelayed}
}
