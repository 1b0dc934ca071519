package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ids are assigned server-side; a caller-supplied id is discarded on create.

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = uuid.NewString()
	return nil
}

func (p *Professor) BeforeCreate(tx *gorm.DB) error {
	p.ID = uuid.NewString()
	return nil
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	s.ID = uuid.NewString()
	return nil
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	t.ID = uuid.NewString()
	return nil
}

func (s *SessionPomodoro) BeforeCreate(tx *gorm.DB) error {
	s.ID = uuid.NewString()
	return nil
}
