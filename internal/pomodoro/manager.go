// Package pomodoro manages the lifecycle of timed study sessions.
package pomodoro

import (
	"context"
	"fmt"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"gorm.io/gorm"
)

var sessionTypes = map[string]bool{
	models.SessionFocus:      true,
	models.SessionShortBreak: true,
	models.SessionLongBreak:  true,
}

// CreateInput starts a session. Optional counters default to zero.
type CreateInput struct {
	Type           string
	StartTime      time.Time
	Duration       int
	IsCompleted    bool
	ExtraTime      *int
	PauseCount     *int
	TotalPauseTime *int
}

// Patch lists the fields an update may overwrite. Nil means "keep".
type Patch struct {
	IsCompleted    *bool
	EndTime        *time.Time
	ExtraTime      *int
	PauseCount     *int
	TotalPauseTime *int
	Status         *string
}

// Manager creates and updates sessions on behalf of their owner.
type Manager struct {
	db     *gorm.DB
	strict bool
	now    func() time.Time
}

// NewManager returns a Manager over db. With strict set, updates are
// checked against the running/paused/completed lifecycle; otherwise any
// supplied field is written as is.
func NewManager(db *gorm.DB, strict bool) *Manager {
	return &Manager{
		db:     db,
		strict: strict,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Strict reports whether lifecycle transitions are enforced.
func (m *Manager) Strict() bool { return m.strict }

// Create persists a new session owned by principal.
func (m *Manager) Create(ctx context.Context, principal *models.User, in CreateInput) (*models.SessionPomodoro, error) {
	if principal == nil {
		return nil, authz.ErrUnauthenticated
	}
	if !sessionTypes[in.Type] {
		return nil, util.Invalid("Tipo de sessão inválido")
	}
	if in.Duration <= 0 {
		return nil, util.Invalid("Duração deve ser maior que zero")
	}

	s := &models.SessionPomodoro{
		UserID:      principal.ID,
		Type:        in.Type,
		StartTime:   in.StartTime.UTC(),
		Duration:    in.Duration,
		IsCompleted: in.IsCompleted,
		Status:      string(Running),
	}
	if in.StartTime.IsZero() {
		s.StartTime = m.now()
	}
	if in.IsCompleted {
		s.Status = string(Completed)
		// completed is terminal, so the end can't be filled in later
		if m.strict {
			end := m.endStamp(s.StartTime)
			s.EndTime = &end
		}
	}

	counters := []struct {
		field string
		src   *int
		dst   *int
	}{
		{"extraTime", in.ExtraTime, &s.ExtraTime},
		{"pauseCount", in.PauseCount, &s.PauseCount},
		{"totalPauseTime", in.TotalPauseTime, &s.TotalPauseTime},
	}
	for _, ct := range counters {
		if ct.src == nil {
			continue
		}
		if err := util.ValidateNonNegative(ct.field, *ct.src); err != nil {
			return nil, err
		}
		*ct.dst = *ct.src
	}

	if err := m.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Get returns a session owned by principal.
func (m *Manager) Get(ctx context.Context, principal *models.User, id string) (*models.SessionPomodoro, error) {
	return authz.Load[models.SessionPomodoro](ctx, m.db, principal, id)
}

// List returns principal's sessions, newest first. limit <= 0 means no limit.
func (m *Manager) List(ctx context.Context, principal *models.User, limit int) ([]models.SessionPomodoro, error) {
	if principal == nil {
		return nil, authz.ErrUnauthenticated
	}
	q := m.db.WithContext(ctx).
		Where("user_id = ?", principal.ID).
		Order("start_time DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	sessions := make([]models.SessionPomodoro, 0)
	if err := q.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Update overwrites the supplied fields of the session with the given id.
// Preconditions are checked in order: authenticated, exists, owned.
func (m *Manager) Update(ctx context.Context, principal *models.User, id string, p Patch) (*models.SessionPomodoro, error) {
	s, err := authz.Load[models.SessionPomodoro](ctx, m.db, principal, id)
	if err != nil {
		return nil, err
	}

	changes, err := m.apply(s, p)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return s, nil
	}

	if err := m.db.WithContext(ctx).Model(s).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update session %s: %w", id, err)
	}
	return s, nil
}

// apply validates p against s, mutates s and returns the changed columns.
func (m *Manager) apply(s *models.SessionPomodoro, p Patch) (map[string]any, error) {
	for _, ct := range []struct {
		field string
		v     *int
	}{
		{"extraTime", p.ExtraTime},
		{"pauseCount", p.PauseCount},
		{"totalPauseTime", p.TotalPauseTime},
	} {
		if ct.v != nil {
			if err := util.ValidateNonNegative(ct.field, *ct.v); err != nil {
				return nil, err
			}
		}
	}

	from := stateOf(s.IsCompleted, s.Status)
	to, err := targetState(from, p)
	if err != nil {
		return nil, err
	}

	if m.strict {
		if err := m.checkStrict(s, p, from, to); err != nil {
			return nil, err
		}
	}

	changes := map[string]any{}
	set := func(col string, changed bool, v any) {
		if changed {
			changes[col] = v
		}
	}

	if p.ExtraTime != nil {
		set("extra_time", *p.ExtraTime != s.ExtraTime, *p.ExtraTime)
		s.ExtraTime = *p.ExtraTime
	}
	if p.PauseCount != nil {
		set("pause_count", *p.PauseCount != s.PauseCount, *p.PauseCount)
		s.PauseCount = *p.PauseCount
	}
	if p.TotalPauseTime != nil {
		set("total_pause_time", *p.TotalPauseTime != s.TotalPauseTime, *p.TotalPauseTime)
		s.TotalPauseTime = *p.TotalPauseTime
	}

	endTime := p.EndTime
	if endTime == nil && m.strict && to == Completed && from != Completed && s.EndTime == nil {
		end := m.endStamp(s.StartTime)
		endTime = &end
	}
	if endTime != nil {
		t := endTime.UTC()
		set("end_time", s.EndTime == nil || !s.EndTime.Equal(t), t)
		s.EndTime = &t
	}

	completed := to == Completed
	set("is_completed", completed != s.IsCompleted, completed)
	s.IsCompleted = completed
	set("status", string(to) != s.Status, string(to))
	s.Status = string(to)

	return changes, nil
}

// endStamp is the end time recorded when a session is completed without
// one. It never precedes start.
func (m *Manager) endStamp(start time.Time) time.Time {
	now := m.now().UTC()
	if now.Before(start) {
		return start.UTC()
	}
	return now
}

// targetState works out where the patch moves the session. isCompleted and
// status must agree when both are given.
func targetState(from State, p Patch) (State, error) {
	to := from
	if p.Status != nil {
		st, err := ParseState(*p.Status)
		if err != nil {
			return "", err
		}
		to = st
	}
	if p.IsCompleted != nil {
		switch {
		case *p.IsCompleted && p.Status != nil && to != Completed:
			return "", util.Invalid("isCompleted e status são incompatíveis")
		case *p.IsCompleted:
			to = Completed
		case p.Status != nil && to == Completed:
			return "", util.Invalid("isCompleted e status são incompatíveis")
		case to == Completed:
			to = Running
		}
	}
	return to, nil
}

func (m *Manager) checkStrict(s *models.SessionPomodoro, p Patch, from, to State) error {
	if from == Completed && changesAnything(s, p, to) {
		return util.Conflict("Sessão já concluída não pode ser alterada")
	}
	if !CanTransition(from, to) {
		return util.Conflict(fmt.Sprintf("Transição inválida de %s para %s", from, to))
	}
	if p.EndTime != nil && p.EndTime.Before(s.StartTime) {
		return util.Invalid("endTime não pode ser anterior a startTime")
	}
	if p.PauseCount != nil && *p.PauseCount < s.PauseCount {
		return util.Invalid("pauseCount não pode diminuir")
	}
	if p.TotalPauseTime != nil && *p.TotalPauseTime < s.TotalPauseTime {
		return util.Invalid("totalPauseTime não pode diminuir")
	}
	return nil
}

// changesAnything reports whether p would alter s. Re-sending the values a
// completed session already has is accepted.
func changesAnything(s *models.SessionPomodoro, p Patch, to State) bool {
	switch {
	case string(to) != s.Status && !(to == Completed && s.IsCompleted):
		return true
	case p.ExtraTime != nil && *p.ExtraTime != s.ExtraTime:
		return true
	case p.PauseCount != nil && *p.PauseCount != s.PauseCount:
		return true
	case p.TotalPauseTime != nil && *p.TotalPauseTime != s.TotalPauseTime:
		return true
	case p.EndTime != nil && (s.EndTime == nil || !s.EndTime.Equal(*p.EndTime)):
		return true
	}
	return false
}
