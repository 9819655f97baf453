package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/response"
	"github.com/stemsi/progresspoint/internal/service"
	"github.com/stemsi/progresspoint/internal/validator"
)

// AttendanceHandler records roll calls and serves attendance history.
type AttendanceHandler struct {
	rosterService *service.RosterService
	log           zerolog.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(rosterService *service.RosterService, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		rosterService: rosterService,
		log:           log.With().Str("component", "attendance_handler").Logger(),
	}
}

// UpdateAttendance godoc
// POST /api/v1/attendance
// Records one roll call. Unknown student ids are ignored.
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	var req model.UpdateAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	students, err := h.rosterService.UpdateAttendance(c.Request.Context(), req.Date, req.Entries)
	if err != nil {
		failRoster(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"students": students})
}

// History godoc
// GET /api/v1/attendance
// Lists every recorded day, newest first, with its head count.
func (h *AttendanceHandler) History(c *gin.Context) {
	history, err := h.rosterService.AttendanceHistory()
	if err != nil {
		failRoster(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"days": history})
}

// Sheet godoc
// GET /api/v1/attendance/:date/sheet
// Returns the statuses to pre-fill the roll call for :date.
func (h *AttendanceHandler) Sheet(c *gin.Context) {
	date := c.Param("date")
	if err := validator.Date(date); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
		return
	}

	entries, err := h.rosterService.AttendanceSheet(date)
	if err != nil {
		failRoster(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"date": date, "entries": entries})
}
