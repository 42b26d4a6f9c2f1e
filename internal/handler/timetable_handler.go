package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/melsoft/timegrid/internal/dto"
	"github.com/melsoft/timegrid/internal/service"
	appErrors "github.com/melsoft/timegrid/pkg/errors"
	"github.com/melsoft/timegrid/pkg/response"
)

// TimetableHandler exposes the four TRANSPORT WIRING endpoints over the
// solver core: slot generation, timetable generation, manual-move
// validation, and conflict report retrieval.
type TimetableHandler struct {
	svc *service.TimetableService
}

// NewTimetableHandler constructs a TimetableHandler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// GenerateSlots godoc
// @Summary Regenerate the weekly time slot grid
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/slots/generate [post]
func (h *TimetableHandler) GenerateSlots(c *gin.Context) {
	slots, err := h.svc.GenerateSlots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Generate godoc
// @Summary Run the Search Driver and persist a new timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateRequest false "Solve parameters"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid generate payload"))
			return
		}
	}

	result, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.GenerateResponse{
		Status:        result.Status.String(),
		EngineVersion: result.EngineVersion,
	}
	for _, r := range result.ConflictReports {
		resp.ConflictReports = append(resp.ConflictReports, dto.ConflictReportDTO{
			ID:          r.ID,
			GeneratedAt: r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
			Severity:    string(r.Severity),
			Message:     r.Message,
		})
	}
	response.JSON(c, http.StatusOK, resp)
}

// ValidateMove godoc
// @Summary Check whether moving a scheduled entry would violate a constraint
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Timetable entry ID"
// @Param payload body dto.ValidateMoveRequest true "Proposed move"
// @Success 200 {object} response.Envelope
// @Router /timetable/entries/{id}/validate-move [post]
func (h *TimetableHandler) ValidateMove(c *gin.Context) {
	entryID := c.Param("id")
	if entryID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "entry id required"))
		return
	}

	var req dto.ValidateMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid move payload"))
		return
	}

	violations, err := h.svc.ValidateMove(c.Request.Context(), entryID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ValidateMoveResponse{Violations: violations})
}

// Conflicts godoc
// @Summary List the conflict reports from the last solve attempt
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/conflicts [get]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	reports, err := h.svc.Conflicts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports)
}
