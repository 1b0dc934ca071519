package pomodoro

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/config"
	"github.com/VncsRaniery/habitask-sub001/internal/database"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"gorm.io/gorm"
)

var t0 = time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T, strict bool) (*Manager, *gorm.DB, *models.User, *models.User) {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "pomodoro.db")})
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	alice := &models.User{Email: "alice@example.com"}
	bob := &models.User{Email: "bob@example.com"}
	db.Create(alice)
	db.Create(bob)

	m := NewManager(db, strict)
	m.now = func() time.Time { return t0.Add(30 * time.Minute) }
	return m, db, alice, bob
}

func startFocus(t *testing.T, m *Manager, owner *models.User) *models.SessionPomodoro {
	t.Helper()
	s, err := m.Create(context.Background(), owner, CreateInput{
		Type:      models.SessionFocus,
		StartTime: t0,
		Duration:  1500,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return s
}

func TestCreateDefaults(t *testing.T) {
	m, db, alice, _ := setup(t, true)

	s := startFocus(t, m, alice)

	if s.ID == "" {
		t.Fatal("id not assigned")
	}
	if s.UserID != alice.ID {
		t.Errorf("UserID = %q, want %q", s.UserID, alice.ID)
	}
	if s.ExtraTime != 0 || s.PauseCount != 0 || s.TotalPauseTime != 0 || s.IsCompleted {
		t.Errorf("counters not at defaults: %+v", s)
	}
	if s.Status != string(Running) {
		t.Errorf("Status = %q, want running", s.Status)
	}

	var stored models.SessionPomodoro
	if err := db.First(&stored, "id = ?", s.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !stored.StartTime.Equal(t0) || stored.Duration != 1500 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCreateValidation(t *testing.T) {
	m, _, alice, _ := setup(t, true)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"bad type", CreateInput{Type: "nap", Duration: 60}},
		{"zero duration", CreateInput{Type: models.SessionFocus}},
		{"negative pause", CreateInput{Type: models.SessionFocus, Duration: 60, PauseCount: ptr(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := m.Create(ctx, alice, tc.in); !errors.Is(err, util.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateUnauthenticatedPersistsNothing(t *testing.T) {
	m, db, _, _ := setup(t, true)

	_, err := m.Create(context.Background(), nil, CreateInput{Type: models.SessionFocus, Duration: 60})
	if !errors.Is(err, authz.ErrUnauthenticated) {
		t.Fatalf("Create() error = %v, want ErrUnauthenticated", err)
	}
	var n int64
	db.Model(&models.SessionPomodoro{}).Count(&n)
	if n != 0 {
		t.Errorf("%d sessions persisted, want 0", n)
	}
}

func TestUpdateCompleteKeepsOtherFields(t *testing.T) {
	m, db, alice, _ := setup(t, true)
	s := startFocus(t, m, alice)
	end := t0.Add(25 * time.Minute)

	got, err := m.Update(context.Background(), alice, s.ID, Patch{IsCompleted: ptr(true), EndTime: &end})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !got.IsCompleted || got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Errorf("updated = %+v", got)
	}

	var stored models.SessionPomodoro
	db.First(&stored, "id = ?", s.ID)
	if !stored.IsCompleted || stored.Status != string(Completed) {
		t.Errorf("stored completion = %v / %s", stored.IsCompleted, stored.Status)
	}
	if stored.Duration != 1500 || stored.Type != models.SessionFocus || stored.PauseCount != 0 || !stored.StartTime.Equal(t0) {
		t.Errorf("untouched fields changed: %+v", stored)
	}
}

func TestUpdatePartialPreservesPriorValues(t *testing.T) {
	m, db, alice, _ := setup(t, true)
	s := startFocus(t, m, alice)
	ctx := context.Background()

	if _, err := m.Update(ctx, alice, s.ID, Patch{PauseCount: ptr(2), TotalPauseTime: ptr(90), Status: ptr("paused")}); err != nil {
		t.Fatalf("first Update() error = %v", err)
	}
	if _, err := m.Update(ctx, alice, s.ID, Patch{ExtraTime: ptr(30), Status: ptr("running")}); err != nil {
		t.Fatalf("second Update() error = %v", err)
	}

	var stored models.SessionPomodoro
	db.First(&stored, "id = ?", s.ID)
	if stored.PauseCount != 2 || stored.TotalPauseTime != 90 || stored.ExtraTime != 30 {
		t.Errorf("stored counters = %d/%d/%d, want 2/90/30", stored.PauseCount, stored.TotalPauseTime, stored.ExtraTime)
	}
	if stored.Status != string(Running) {
		t.Errorf("Status = %q, want running", stored.Status)
	}
}

func TestUpdateOtherUserForbidden(t *testing.T) {
	m, db, alice, bob := setup(t, true)
	s := startFocus(t, m, alice)

	_, err := m.Update(context.Background(), bob, s.ID, Patch{IsCompleted: ptr(true)})
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("Update() error = %v, want ErrForbidden", err)
	}

	var stored models.SessionPomodoro
	db.First(&stored, "id = ?", s.ID)
	if stored.IsCompleted {
		t.Error("record changed by non-owner")
	}
	if _, err := m.Get(context.Background(), bob, s.ID); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("Get() by non-owner error = %v, want ErrForbidden", err)
	}
}

func TestUpdateMissingAndAnonymous(t *testing.T) {
	m, _, alice, _ := setup(t, true)

	if _, err := m.Update(context.Background(), alice, "missing", Patch{}); !errors.Is(err, authz.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := m.Update(context.Background(), nil, "missing", Patch{}); !errors.Is(err, authz.ErrUnauthenticated) {
		t.Errorf("Update(anonymous) error = %v, want ErrUnauthenticated", err)
	}
}

func TestStrictRejectsUncompleting(t *testing.T) {
	m, _, alice, _ := setup(t, true)
	s := startFocus(t, m, alice)
	ctx := context.Background()

	if _, err := m.Update(ctx, alice, s.ID, Patch{IsCompleted: ptr(true)}); err != nil {
		t.Fatal(err)
	}
	_, err := m.Update(ctx, alice, s.ID, Patch{IsCompleted: ptr(false)})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("un-complete error = %v, want ErrInvalidTransition", err)
	}
	_, err = m.Update(ctx, alice, s.ID, Patch{ExtraTime: ptr(10)})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("edit after completion error = %v, want ErrInvalidTransition", err)
	}
	// repeating the completion is accepted
	if _, err := m.Update(ctx, alice, s.ID, Patch{IsCompleted: ptr(true)}); err != nil {
		t.Errorf("repeat completion error = %v", err)
	}
}

func TestStrictStampsEndTime(t *testing.T) {
	m, _, alice, _ := setup(t, true)
	s := startFocus(t, m, alice)

	got, err := m.Update(context.Background(), alice, s.ID, Patch{IsCompleted: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if got.EndTime == nil || !got.EndTime.Equal(t0.Add(30*time.Minute)) {
		t.Errorf("EndTime = %v, want now", got.EndTime)
	}
}

func TestStrictStampNeverPrecedesStart(t *testing.T) {
	m, _, alice, _ := setup(t, true)
	ctx := context.Background()

	// starts after the manager's clock (t0+30m)
	later := t0.Add(2 * time.Hour)
	s, err := m.Create(ctx, alice, CreateInput{Type: models.SessionFocus, StartTime: later, Duration: 1500})
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.Update(ctx, alice, s.ID, Patch{IsCompleted: ptr(true)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.EndTime == nil || got.EndTime.Before(got.StartTime) {
		t.Fatalf("EndTime = %v, want not before StartTime %v", got.EndTime, got.StartTime)
	}
	if !got.EndTime.Equal(later) {
		t.Errorf("EndTime = %v, want %v", got.EndTime, later)
	}
}

func TestStrictCreateCompletedStampsEndTime(t *testing.T) {
	m, db, alice, _ := setup(t, true)
	ctx := context.Background()

	s, err := m.Create(ctx, alice, CreateInput{Type: models.SessionFocus, StartTime: t0, Duration: 1500, IsCompleted: true})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != string(Completed) {
		t.Errorf("Status = %q, want completed", s.Status)
	}
	if s.EndTime == nil || !s.EndTime.Equal(t0.Add(30*time.Minute)) {
		t.Errorf("EndTime = %v, want now", s.EndTime)
	}

	var stored models.SessionPomodoro
	if err := db.First(&stored, "id = ?", s.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.EndTime == nil {
		t.Error("stored EndTime = nil")
	}

	// re-sending the stored end time is accepted on a completed session
	if _, err := m.Update(ctx, alice, s.ID, Patch{EndTime: stored.EndTime}); err != nil {
		t.Errorf("Update(same endTime) error = %v", err)
	}

	future := t0.Add(3 * time.Hour)
	s, err = m.Create(ctx, alice, CreateInput{Type: models.SessionFocus, StartTime: future, Duration: 60, IsCompleted: true})
	if err != nil {
		t.Fatal(err)
	}
	if s.EndTime == nil || !s.EndTime.Equal(future) {
		t.Errorf("future start EndTime = %v, want %v", s.EndTime, future)
	}
}

func TestLenientCreateCompletedLeavesEndTime(t *testing.T) {
	m, _, alice, _ := setup(t, false)
	s, err := m.Create(context.Background(), alice, CreateInput{Type: models.SessionFocus, StartTime: t0, Duration: 60, IsCompleted: true})
	if err != nil {
		t.Fatal(err)
	}
	if s.EndTime != nil {
		t.Errorf("EndTime = %v, want nil", s.EndTime)
	}
}

func TestStrictFieldInvariants(t *testing.T) {
	m, _, alice, _ := setup(t, true)
	s := startFocus(t, m, alice)
	ctx := context.Background()

	if _, err := m.Update(ctx, alice, s.ID, Patch{PauseCount: ptr(3)}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		p    Patch
	}{
		{"end before start", Patch{EndTime: ptr(t0.Add(-time.Minute))}},
		{"pause count decreases", Patch{PauseCount: ptr(1)}},
		{"negative extra", Patch{ExtraTime: ptr(-5)}},
		{"unknown status", Patch{Status: ptr("stopped")}},
		{"contradicting flags", Patch{IsCompleted: ptr(true), Status: ptr("paused")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := m.Update(ctx, alice, s.ID, tc.p); !errors.Is(err, util.ErrValidation) {
				t.Errorf("Update() error = %v, want ErrValidation", err)
			}
		})
	}
}

// Lenient mode keeps the legacy behaviour: any supplied field is written.
func TestLenientAllowsArbitraryRewrite(t *testing.T) {
	m, db, alice, _ := setup(t, false)
	s := startFocus(t, m, alice)
	ctx := context.Background()

	if _, err := m.Update(ctx, alice, s.ID, Patch{IsCompleted: ptr(true), PauseCount: ptr(4)}); err != nil {
		t.Fatal(err)
	}
	before := t0.Add(-time.Hour)
	got, err := m.Update(ctx, alice, s.ID, Patch{IsCompleted: ptr(false), PauseCount: ptr(1), EndTime: &before})
	if err != nil {
		t.Fatalf("lenient Update() error = %v", err)
	}
	if got.IsCompleted || got.PauseCount != 1 || !got.EndTime.Equal(before) {
		t.Errorf("updated = %+v", got)
	}

	var stored models.SessionPomodoro
	db.First(&stored, "id = ?", s.ID)
	if stored.IsCompleted || stored.Status != string(Running) {
		t.Errorf("stored = %v / %s, want not completed / running", stored.IsCompleted, stored.Status)
	}

	// negative values are rejected in both modes
	if _, err := m.Update(ctx, alice, s.ID, Patch{TotalPauseTime: ptr(-1)}); !errors.Is(err, util.ErrValidation) {
		t.Errorf("negative totalPauseTime error = %v, want ErrValidation", err)
	}
}

func TestLenientCompletionDoesNotStampEndTime(t *testing.T) {
	m, _, alice, _ := setup(t, false)
	s := startFocus(t, m, alice)

	got, err := m.Update(context.Background(), alice, s.ID, Patch{IsCompleted: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if got.EndTime != nil {
		t.Errorf("EndTime = %v, want nil", got.EndTime)
	}
}

func TestList(t *testing.T) {
	m, _, alice, bob := setup(t, true)
	ctx := context.Background()

	first := startFocus(t, m, alice)
	second, _ := m.Create(ctx, alice, CreateInput{Type: models.SessionShortBreak, StartTime: t0.Add(time.Hour), Duration: 300})
	startFocus(t, m, bob)

	got, err := m.List(ctx, alice, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("List() = %v, want [second first]", got)
	}
	if got, _ := m.List(ctx, alice, 1); len(got) != 1 {
		t.Errorf("List(limit 1) len = %d", len(got))
	}
	if _, err := m.List(ctx, nil, 0); !errors.Is(err, authz.ErrUnauthenticated) {
		t.Errorf("List(anonymous) error = %v", err)
	}
}
