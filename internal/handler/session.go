package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/pomodoro"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the pomodoro lifecycle over HTTP.
type SessionHandler struct {
	Manager *pomodoro.Manager
}

func NewSessionHandler(m *pomodoro.Manager) *SessionHandler {
	return &SessionHandler{Manager: m}
}

// userId is accepted in the body only so it can be ignored: the owner is
// always the caller.
type createSessionReq struct {
	Type           string    `json:"type" binding:"required,oneof=focus short_break long_break"`
	StartTime      time.Time `json:"startTime"`
	Duration       int       `json:"duration" binding:"required,gt=0"`
	IsCompleted    bool      `json:"isCompleted"`
	ExtraTime      *int      `json:"extraTime" binding:"omitempty,gte=0"`
	PauseCount     *int      `json:"pauseCount" binding:"omitempty,gte=0"`
	TotalPauseTime *int      `json:"totalPauseTime" binding:"omitempty,gte=0"`
	UserID         string    `json:"userId"`
}

type updateSessionReq struct {
	IsCompleted    *bool      `json:"isCompleted"`
	EndTime        *time.Time `json:"endTime"`
	ExtraTime      *int       `json:"extraTime"`
	PauseCount     *int       `json:"pauseCount"`
	TotalPauseTime *int       `json:"totalPauseTime"`
	Status         *string    `json:"status"`
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit < 0 || limit > 1000 {
		limit = 0
	}

	sessions, err := h.Manager.List(c.Request.Context(), user, limit)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, sessions)
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Invalid("Dados da sessão inválidos"))
		return
	}

	s, err := h.Manager.Create(c.Request.Context(), user, pomodoro.CreateInput{
		Type:           req.Type,
		StartTime:      req.StartTime,
		Duration:       req.Duration,
		IsCompleted:    req.IsCompleted,
		ExtraTime:      req.ExtraTime,
		PauseCount:     req.PauseCount,
		TotalPauseTime: req.TotalPauseTime,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, s)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	user := authz.Principal(c)
	s, err := h.Manager.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		util.Fail(c, notFoundAs(err, "Sessão não encontrada"))
		return
	}
	util.Success(c, http.StatusOK, s)
}

func (h *SessionHandler) UpdateSession(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req updateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Invalid("Dados da sessão inválidos"))
		return
	}

	s, err := h.Manager.Update(c.Request.Context(), user, c.Param("id"), pomodoro.Patch{
		IsCompleted:    req.IsCompleted,
		EndTime:        req.EndTime,
		ExtraTime:      req.ExtraTime,
		PauseCount:     req.PauseCount,
		TotalPauseTime: req.TotalPauseTime,
		Status:         req.Status,
	})
	if err != nil {
		util.Fail(c, notFoundAs(err, "Sessão não encontrada"))
		return
	}
	util.Success(c, http.StatusOK, s)
}
