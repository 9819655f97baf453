package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/response"
	"github.com/stemsi/progresspoint/internal/service"
	"github.com/stemsi/progresspoint/internal/validator"
)

// RosterHandler serves the logged-in admin's students and rankings.
type RosterHandler struct {
	rosterService *service.RosterService
	log           zerolog.Logger
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService *service.RosterService, log zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		rosterService: rosterService,
		log:           log.With().Str("component", "roster_handler").Logger(),
	}
}

// ListStudents godoc
// GET /api/v1/students
// Returns the roster in its current order.
func (h *RosterHandler) ListStudents(c *gin.Context) {
	students, err := h.rosterService.Students()
	if err != nil {
		failRoster(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"students": students})
}

// Leaderboard godoc
// GET /api/v1/leaderboard
// Returns ranks, medals and roster statistics.
func (h *RosterHandler) Leaderboard(c *gin.Context) {
	board, err := h.rosterService.Leaderboard()
	if err != nil {
		failRoster(c, h.log, err)
		return
	}
	response.OK(c, board)
}

// UpdateMarks godoc
// PATCH /api/v1/students/:id/marks
// Overwrites the provided categories, clamps them to 0-100 and re-ranks the
// roster. An unknown id leaves every mark as it was.
func (h *RosterHandler) UpdateMarks(c *gin.Context) {
	var patch model.MarksPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	students, err := h.rosterService.UpdateStudentMarks(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failRoster(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"students": students})
}

// failRoster maps a roster service error onto the response envelope.
func failRoster(c *gin.Context, log zerolog.Logger, err error) {
	if errors.Is(err, service.ErrNoActiveSession) {
		response.Fail(c, http.StatusUnauthorized, response.ErrNoActiveSession)
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Roster operation failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
