package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Starefossen/NisseKomm-sub003/dto"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

type ProgressHandler struct {
	progressionSvc ProgressionServiceInterface
}

func NewProgressHandler(progressionSvc ProgressionServiceInterface) *ProgressHandler {
	return &ProgressHandler{progressionSvc: progressionSvc}
}

func sessionID(c *fiber.Ctx) string {
	if v := c.Locals(shared.SessionID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func role(c *fiber.Ctx) string {
	if v := c.Locals(shared.Role); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// @Summary Submit a mission code
// @Description Check a code against the mission catalog and record completion
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param submitCodeRequest body dto.SubmitCodeRequest true "Mission code"
// @Success 200 {object} shared.Response{data=dto.SubmitCodeResponse}
// @Router /api/v1/code [post]
func (h *ProgressHandler) SubmitCode(c *fiber.Ctx) error {
	var req dto.SubmitCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.progressionSvc.SubmitCode(c.Context(), sessionID(c), req.Code)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Code processed", resp)
}

// @Summary Record a failed code attempt
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param failedAttemptRequest body dto.RecordFailedAttemptRequest true "Calendar day"
// @Success 200 {object} shared.Response{data=int}
// @Router /api/v1/attempts/failed [post]
func (h *ProgressHandler) RecordFailedAttempt(c *fiber.Ctx) error {
	var req dto.RecordFailedAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	count, err := h.progressionSvc.RecordFailedAttempt(c.Context(), sessionID(c), req.Day)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Attempt recorded", count)
}

// @Summary Collect a symbol
// @Description Add a collectible symbol to the session, idempotently
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param collectSymbolRequest body dto.CollectSymbolRequest true "Symbol"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/symbol [post]
func (h *ProgressHandler) CollectSymbol(c *fiber.Ctx) error {
	var req dto.CollectSymbolRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.progressionSvc.RecordSymbolCollected(c.Context(), sessionID(c), req.SymbolID, req.Icon, req.Description); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Symbol collected", nil)
}

// @Summary Attempt a decryption puzzle
// @Description Check a symbol sequence against the challenge solution
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param attemptDecryptionRequest body dto.AttemptDecryptionRequest true "Challenge attempt"
// @Success 200 {object} shared.Response{data=dto.AttemptDecryptionResponse}
// @Router /api/v1/decrypt [post]
func (h *ProgressHandler) AttemptDecryption(c *fiber.Ctx) error {
	var req dto.AttemptDecryptionRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.progressionSvc.AttemptDecryption(c.Context(), sessionID(c), req.ChallengeID, req.Sequence)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Attempt processed", resp)
}

// @Summary Resolve a crisis
// @Description Mark a side quest crisis as fixed when the right code is supplied
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param resolveCrisisRequest body dto.ResolveCrisisRequest true "Crisis key and code"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/crisis [post]
func (h *ProgressHandler) ResolveCrisis(c *fiber.Ctx) error {
	var req dto.ResolveCrisisRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.progressionSvc.ResolveCrisis(c.Context(), sessionID(c), req.CrisisKey, req.Code, role(c)); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Crisis resolved", nil)
}

// @Summary Mark a daily email as viewed
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param markEmailViewedRequest body dto.MarkEmailViewedRequest true "Day and bonus flag"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/emails/viewed [post]
func (h *ProgressHandler) MarkEmailViewed(c *fiber.Ctx) error {
	var req dto.MarkEmailViewedRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.progressionSvc.MarkEmailViewed(c.Context(), sessionID(c), req.Day, req.Bonus); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Email marked as viewed", nil)
}

// @Summary Update player names
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param updateNamesRequest body dto.UpdateNamesRequest true "Player names"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/names/players [put]
func (h *ProgressHandler) UpdatePlayerNames(c *fiber.Ctx) error {
	var req dto.UpdateNamesRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.progressionSvc.UpdatePlayerNames(c.Context(), sessionID(c), req.Names); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Player names updated", nil)
}

// @Summary Update friend names
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param updateNamesRequest body dto.UpdateNamesRequest true "Friend names"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/names/friends [put]
func (h *ProgressHandler) UpdateFriendNames(c *fiber.Ctx) error {
	var req dto.UpdateNamesRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.progressionSvc.UpdateFriendNames(c.Context(), sessionID(c), req.Names); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Friend names updated", nil)
}
