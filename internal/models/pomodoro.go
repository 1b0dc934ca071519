package models

import "time"

const (
	SessionFocus      = "focus"
	SessionShortBreak = "short_break"
	SessionLongBreak  = "long_break"
)

// SessionPomodoro is a timed focus or break interval.
// Durations are in seconds.
type SessionPomodoro struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	UserID         string     `gorm:"size:36;index;not null" json:"userId"`
	Type           string     `gorm:"size:16;not null" json:"type"`
	Status         string     `gorm:"size:16;not null;default:running" json:"status"`
	StartTime      time.Time  `gorm:"index;not null" json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	Duration       int        `gorm:"not null" json:"duration"`
	IsCompleted    bool       `gorm:"not null;default:false" json:"isCompleted"`
	ExtraTime      int        `gorm:"not null;default:0" json:"extraTime"`
	PauseCount     int        `gorm:"not null;default:0" json:"pauseCount"`
	TotalPauseTime int        `gorm:"not null;default:0" json:"totalPauseTime"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (s *SessionPomodoro) OwnerID() string { return s.UserID }

// FocusSeconds is the time actually spent in the interval: the planned
// duration plus any overrun.
func (s *SessionPomodoro) FocusSeconds() int {
	return s.Duration + s.ExtraTime
}
