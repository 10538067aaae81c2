package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Starefossen/NisseKomm-sub003/shared"
)

// CalendarHandler serves the read-only projections of a session.
type CalendarHandler struct {
	progressionSvc ProgressionServiceInterface
}

func NewCalendarHandler(progressionSvc ProgressionServiceInterface) *CalendarHandler {
	return &CalendarHandler{progressionSvc: progressionSvc}
}

// @Summary Get the calendar view
// @Description List all 24 doors with reachability and completion state
// @Tags calendar
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.CalendarResponse}
// @Router /api/v1/calendar [get]
func (h *CalendarHandler) GetCalendar(c *fiber.Ctx) error {
	resp, err := h.progressionSvc.GetCalendar(c.Context(), sessionID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get full progress
// @Description Complete projection of the session state
// @Tags calendar
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress [get]
func (h *CalendarHandler) GetProgress(c *fiber.Ctx) error {
	resp, err := h.progressionSvc.GetProgress(c.Context(), sessionID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get visible content
// @Description Files, modules and topics unlocked so far
// @Tags calendar
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.VisibleContentResponse}
// @Router /api/v1/content [get]
func (h *CalendarHandler) GetVisibleContent(c *fiber.Ctx) error {
	resp, err := h.progressionSvc.GetVisibleContent(c.Context(), sessionID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get earned badges
// @Tags calendar
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.BadgeResponse}
// @Router /api/v1/badges [get]
func (h *CalendarHandler) GetBadges(c *fiber.Ctx) error {
	resp, err := h.progressionSvc.GetBadges(c.Context(), sessionID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
