package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AnalyticsHandler summarizes the caller's study time.
type AnalyticsHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{DB: db, Now: time.Now}
}

type dayFocus struct {
	Date         string `json:"date"`
	FocusSeconds int    `json:"focusSeconds"`
	Sessions     int    `json:"sessions"`
}

type summaryResp struct {
	Days              int            `json:"days"`
	From              time.Time      `json:"from"`
	TotalFocusSeconds int            `json:"totalFocusSeconds"`
	CompletedSessions int            `json:"completedSessions"`
	TotalPauseSeconds int            `json:"totalPauseSeconds"`
	PauseCount        int            `json:"pauseCount"`
	ByDay             []dayFocus     `json:"byDay"`
	TasksByStatus     map[string]int `json:"tasksByStatus"`
}

// Summary aggregates the last N days (default 7, max 365). Only completed
// focus sessions count towards focus time.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 365 {
		util.Fail(c, util.Invalid("days deve estar entre 1 e 365"))
		return
	}

	now := h.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(days - 1))

	ctx := c.Request.Context()
	var sessions []models.SessionPomodoro
	if err := h.DB.WithContext(ctx).
		Where("user_id = ? AND start_time >= ? AND start_time < ?", user.ID, from, today.AddDate(0, 0, 1)).
		Order("start_time ASC").
		Find(&sessions).Error; err != nil {
		util.Fail(c, err)
		return
	}

	resp := summaryResp{
		Days:          days,
		From:          from,
		ByDay:         make([]dayFocus, days),
		TasksByStatus: map[string]int{models.TaskPending: 0, models.TaskInProgress: 0, models.TaskCompleted: 0},
	}
	for i := range resp.ByDay {
		resp.ByDay[i].Date = from.AddDate(0, 0, i).Format("2006-01-02")
	}

	for i := range sessions {
		s := &sessions[i]
		resp.PauseCount += s.PauseCount
		resp.TotalPauseSeconds += s.TotalPauseTime
		if s.Type != models.SessionFocus || !s.IsCompleted {
			continue
		}
		resp.CompletedSessions++
		resp.TotalFocusSeconds += s.FocusSeconds()

		idx := int(s.StartTime.UTC().Sub(from) / (24 * time.Hour))
		if idx >= 0 && idx < days {
			resp.ByDay[idx].FocusSeconds += s.FocusSeconds()
			resp.ByDay[idx].Sessions++
		}
	}

	var rows []struct {
		Status string
		Count  int
	}
	if err := h.DB.WithContext(ctx).Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", user.ID).
		Group("status").
		Scan(&rows).Error; err != nil {
		util.Fail(c, err)
		return
	}
	for _, r := range rows {
		resp.TasksByStatus[r.Status] = r.Count
	}

	util.Success(c, http.StatusOK, resp)
}
