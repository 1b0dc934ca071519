package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TaskHandler serves the caller's tasks. Update and delete go through the
// ownership guard like every other owned record.
type TaskHandler struct {
	DB *gorm.DB
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{DB: db}
}

type taskReq struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description" binding:"max=5000"`
	Category    string    `json:"category" binding:"max=64"`
	StartDate   time.Time `json:"startDate"`
	DueDate     time.Time `json:"dueDate"`
	Status      string    `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Importance  string    `json:"importance" binding:"omitempty,oneof=low medium high"`
	SubjectID   *string   `json:"subjectId"`
}

func (h *TaskHandler) bind(c *gin.Context, user *models.User) (*taskReq, error) {
	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, util.Invalid("Dados da tarefa inválidos")
	}
	if err := util.ValidateName(req.Title, 255); err != nil {
		return nil, util.Invalid("Título é obrigatório")
	}
	if err := util.ValidateDateRange(req.StartDate, req.DueDate); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = models.TaskPending
	}
	if req.Importance == "" {
		req.Importance = models.ImportanceMedium
	}
	if req.SubjectID != nil && *req.SubjectID == "" {
		req.SubjectID = nil
	}
	if req.SubjectID != nil {
		_, err := authz.Load[models.Subject](c.Request.Context(), h.DB, user, *req.SubjectID)
		if errors.Is(err, authz.ErrForbidden) || errors.Is(err, authz.ErrNotFound) {
			return nil, util.Invalid("Matéria inválida")
		}
		if err != nil {
			return nil, err
		}
	}
	return &req, nil
}

func (r *taskReq) applyTo(t *models.Task) {
	t.Title = strings.TrimSpace(r.Title)
	t.Description = r.Description
	t.Category = strings.TrimSpace(r.Category)
	t.StartDate = r.StartDate.UTC()
	t.DueDate = r.DueDate.UTC()
	t.Status = r.Status
	t.Importance = r.Importance
	t.SubjectID = r.SubjectID
}

// ListTasks returns the caller's tasks ordered by due date.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	q := h.DB.WithContext(c.Request.Context()).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	tasks := make([]models.Task, 0)
	if err := q.Order("due_date ASC, id ASC").Find(&tasks).Error; err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	req, err := h.bind(c, user)
	if err != nil {
		util.Fail(c, err)
		return
	}

	task := models.Task{UserID: user.ID}
	req.applyTo(&task)
	if err := h.DB.WithContext(c.Request.Context()).Create(&task).Error; err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, task)
}

// UpdateTask rewrites every mutable field of a task the caller owns.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()
	task, err := authz.Load[models.Task](ctx, h.DB, user, id)
	if err != nil {
		util.Fail(c, notFoundAs(err, "Tarefa não encontrada"))
		return
	}

	req, err := h.bind(c, user)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if req.ID != "" && req.ID != id {
		util.Fail(c, util.Invalid("ID da tarefa não corresponde ao caminho"))
		return
	}

	req.applyTo(task)
	if err := h.DB.WithContext(ctx).Model(task).Select(
		"title", "description", "category", "start_date", "due_date",
		"status", "importance", "subject_id",
	).Updates(task).Error; err != nil {
		util.Fail(c, fmt.Errorf("update task %s: %w", id, err))
		return
	}
	util.Success(c, http.StatusOK, task)
}

// DeleteTask removes a task the caller owns. Unknown ids answer 404.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()
	task, err := authz.Load[models.Task](ctx, h.DB, user, id)
	if err != nil {
		util.Fail(c, notFoundAs(err, "Tarefa não encontrada"))
		return
	}

	if err := h.DB.WithContext(ctx).Delete(task).Error; err != nil {
		util.Fail(c, fmt.Errorf("delete task %s: %w", id, err))
		return
	}
	util.Success(c, http.StatusOK, gin.H{"message": "Tarefa excluída com sucesso"})
}

// notFoundAs swaps the generic not-found message for a resource specific one.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, authz.ErrNotFound) {
		return util.NotFound(msg)
	}
	return err
}
