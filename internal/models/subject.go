package models

import "time"

// Subject is a study subject, optionally taught by one of the owner's professors.
type Subject struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;index;not null" json:"userId"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Color       string     `gorm:"size:16" json:"color"`
	ProfessorID *string    `gorm:"size:36;index" json:"professorId"`
	Professor   *Professor `gorm:"constraint:OnDelete:SET NULL" json:"professor"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subject) OwnerID() string { return s.UserID }
