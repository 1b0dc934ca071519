package handler

import (
	"net/http"
	"strings"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfessorHandler lists and creates the caller's professors.
// There is no update or delete endpoint.
type ProfessorHandler struct {
	DB *gorm.DB
}

func NewProfessorHandler(db *gorm.DB) *ProfessorHandler {
	return &ProfessorHandler{DB: db}
}

type createProfessorReq struct {
	Name  string `json:"name" binding:"required,max=128"`
	Email string `json:"email" binding:"omitempty,email,max=255"`
	Phone string `json:"phone" binding:"max=32"`
}

// ListProfessors returns the caller's professors ordered by name.
func (h *ProfessorHandler) ListProfessors(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	professors := make([]models.Professor, 0)
	if err := h.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("name ASC").
		Find(&professors).Error; err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, professors)
}

func (h *ProfessorHandler) CreateProfessor(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req createProfessorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Invalid("Nome é obrigatório e e-mail deve ser válido"))
		return
	}
	if err := util.ValidateName(req.Name, 128); err != nil {
		util.Fail(c, err)
		return
	}

	professor := models.Professor{
		UserID: user.ID,
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.TrimSpace(req.Email),
		Phone:  strings.TrimSpace(req.Phone),
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&professor).Error; err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, professor)
}
