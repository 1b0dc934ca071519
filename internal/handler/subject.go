package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubjectHandler lists and creates the caller's subjects.
type SubjectHandler struct {
	DB *gorm.DB
}

func NewSubjectHandler(db *gorm.DB) *SubjectHandler {
	return &SubjectHandler{DB: db}
}

type createSubjectReq struct {
	Name        string  `json:"name" binding:"required,max=128"`
	Description string  `json:"description" binding:"max=2000"`
	Color       string  `json:"color"`
	ProfessorID *string `json:"professorId"`
}

// ListSubjects returns the caller's subjects, newest first, each with its
// professor embedded.
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	subjects := make([]models.Subject, 0)
	if err := h.DB.WithContext(c.Request.Context()).
		Preload("Professor").
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&subjects).Error; err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, subjects)
}

// CreateSubject stores a subject. A professorId must name one of the
// caller's own professors.
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req createSubjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Invalid("Nome é obrigatório"))
		return
	}
	if err := util.ValidateName(req.Name, 128); err != nil {
		util.Fail(c, err)
		return
	}
	if err := util.ValidateColor(req.Color); err != nil {
		util.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var professor *models.Professor
	if req.ProfessorID != nil && *req.ProfessorID != "" {
		professor, err = authz.Load[models.Professor](ctx, h.DB, user, *req.ProfessorID)
		if err != nil {
			// another user's professor looks the same as a missing one
			if errors.Is(err, authz.ErrForbidden) || errors.Is(err, authz.ErrNotFound) {
				err = util.Invalid("Professor inválido")
			}
			util.Fail(c, err)
			return
		}
	}

	subject := models.Subject{
		UserID:      user.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Color:       req.Color,
	}
	if professor != nil {
		subject.ProfessorID = &professor.ID
	}
	if err := h.DB.WithContext(ctx).Create(&subject).Error; err != nil {
		util.Fail(c, err)
		return
	}
	subject.Professor = professor

	util.Success(c, http.StatusCreated, subject)
}
