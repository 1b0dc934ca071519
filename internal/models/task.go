package models

import "time"

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"

	ImportanceLow    = "low"
	ImportanceMedium = "medium"
	ImportanceHigh   = "high"
)

// Task is a to-do item with a planned window and an importance level.
type Task struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index;not null" json:"userId"`
	SubjectID   *string   `gorm:"size:36;index" json:"subjectId"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:64" json:"category"`
	StartDate   time.Time `json:"startDate"`
	DueDate     time.Time `gorm:"index" json:"dueDate"`
	Status      string    `gorm:"size:16;index;not null;default:pending" json:"status"`
	Importance  string    `gorm:"size:16;not null;default:medium" json:"importance"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	User    User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Subject *Subject `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (t *Task) OwnerID() string { return t.UserID }
