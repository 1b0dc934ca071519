package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var sessionHeaders = []string{"Tipo", "Início", "Fim", "Duração (s)", "Tempo extra (s)", "Pausas", "Tempo pausado (s)", "Concluída"}

func sessionRow(s *models.SessionPomodoro) []string {
	end := ""
	if s.EndTime != nil {
		end = s.EndTime.UTC().Format(time.RFC3339)
	}
	done := "não"
	if s.IsCompleted {
		done = "sim"
	}
	return []string{
		s.Type,
		s.StartTime.UTC().Format(time.RFC3339),
		end,
		strconv.Itoa(s.Duration),
		strconv.Itoa(s.ExtraTime),
		strconv.Itoa(s.PauseCount),
		strconv.Itoa(s.TotalPauseTime),
		done,
	}
}

var taskHeaders = []string{"Título", "Categoria", "Início", "Entrega", "Status", "Importância", "Descrição"}

func taskRow(t *models.Task) []string {
	return []string{
		t.Title,
		t.Category,
		formatDate(t.StartDate),
		formatDate(t.DueDate),
		t.Status,
		t.Importance,
		t.Description,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func (h *ExportHandler) loadSessions(c *gin.Context) ([]models.SessionPomodoro, bool) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return nil, false
	}
	var sessions []models.SessionPomodoro
	if err := h.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("start_time DESC").
		Find(&sessions).Error; err != nil {
		util.Fail(c, err)
		return nil, false
	}
	return sessions, true
}

// ExportSessionsCSV writes the caller's sessions as CSV.
func (h *ExportHandler) ExportSessionsCSV(c *gin.Context) {
	sessions, ok := h.loadSessions(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := writeSessionsCSV(&buf, sessions); err != nil {
		util.Fail(c, fmt.Errorf("write csv: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"sessoes_%s.csv\"",
		time.Now().Format("20060102")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// writeSessionsCSV writes a UTF-8 BOM, so spreadsheet apps pick the right
// encoding, followed by the header and one row per session.
func writeSessionsCSV(w io.Writer, sessions []models.SessionPomodoro) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(sessionHeaders); err != nil {
		return err
	}
	for i := range sessions {
		if err := writer.Write(sessionRow(&sessions[i])); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportSessionsXLSX writes the caller's sessions as a spreadsheet.
func (h *ExportHandler) ExportSessionsXLSX(c *gin.Context) {
	sessions, ok := h.loadSessions(c)
	if !ok {
		return
	}
	rows := make([][]string, 0, len(sessions))
	for i := range sessions {
		rows = append(rows, sessionRow(&sessions[i]))
	}
	writeSheet(c, "Sessões", "sessoes", sessionHeaders, rows)
}

// ExportTasksXLSX writes the caller's tasks as a spreadsheet.
func (h *ExportHandler) ExportTasksXLSX(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var tasks []models.Task
	if err := h.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		util.Fail(c, err)
		return
	}
	rows := make([][]string, 0, len(tasks))
	for i := range tasks {
		rows = append(rows, taskRow(&tasks[i]))
	}
	writeSheet(c, "Tarefas", "tarefas", taskHeaders, rows)
}

func writeSheet(c *gin.Context, sheetName, filePrefix string, headers []string, rows [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet instead of leaving an empty "Sheet1"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		util.Fail(c, fmt.Errorf("rename sheet: %w", err))
		return
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		util.Fail(c, fmt.Errorf("write header: %w", err))
		return
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			util.Fail(c, fmt.Errorf("cell name: %w", err))
			return
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			util.Fail(c, fmt.Errorf("write row %d: %w", i+2, err))
			return
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		util.Fail(c, fmt.Errorf("column name: %w", err))
		return
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
		util.Fail(c, fmt.Errorf("set column width: %w", err))
		return
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		util.Fail(c, fmt.Errorf("write xlsx: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.xlsx\"",
		filePrefix, time.Now().Format("20060102")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
