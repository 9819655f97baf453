package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/export"
	"github.com/stemsi/progresspoint/internal/middleware"
	"github.com/stemsi/progresspoint/internal/response"
	"github.com/stemsi/progresspoint/internal/service"
)

// ExportHandler serves the roster as a spreadsheet download.
type ExportHandler struct {
	rosterService *service.RosterService
	log           zerolog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(rosterService *service.RosterService, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		rosterService: rosterService,
		log:           log.With().Str("component", "export_handler").Logger(),
	}
}

// RosterWorkbook godoc
// GET /api/v1/export/roster.xlsx
// Streams the leaderboard and attendance history as an .xlsx workbook.
func (h *ExportHandler) RosterWorkbook(c *gin.Context) {
	students, err := h.rosterService.Students()
	if err != nil {
		failRoster(c, h.log, err)
		return
	}

	// Render fully before writing so a failure can still produce JSON.
	var buf bytes.Buffer
	if err := export.WriteRoster(&buf, students); err != nil {
		h.log.Error().Err(err).Msg("Workbook render failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	name := "roster"
	if admin := middleware.GetAdmin(c); admin != nil {
		name = strings.ToLower(admin.Username)
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format(time.DateOnly))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
