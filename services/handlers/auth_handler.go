package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Starefossen/NisseKomm-sub003/dto"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

type AuthHandler struct {
	credentialSvc CredentialServiceInterface
	jwtSvc        JWTServiceInterface
}

func NewAuthHandler(credentialSvc CredentialServiceInterface, jwtSvc JWTServiceInterface) *AuthHandler {
	return &AuthHandler{
		credentialSvc: credentialSvc,
		jwtSvc:        jwtSvc,
	}
}

// @Summary Register a new family
// @Description Create a fresh session with a child code and a guardian code
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body dto.RegisterRequest true "Registration details"
// @Success 201 {object} shared.Response{data=dto.RegisterResponse}
// @Router /api/v1/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.credentialSvc.Register(c.Context(), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Family registered successfully", resp)
}

// @Summary Login with an access code
// @Description Exchange a child or guardian access code for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body dto.LoginRequest true "Access code"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	sessionID, role, err := h.credentialSvc.FindSessionIDByAccessCode(req.AccessCode)
	if err != nil {
		return err
	}

	pair, err := h.jwtSvc.GenerateTokenPair(sessionID, role)
	if err != nil {
		return err
	}

	resp := &dto.LoginResponse{
		SessionID:   sessionID,
		Role:        role,
		AccessToken: pair.AccessToken,
		ExpiresIn:   pair.ExpiresIn,
	}

	return shared.ResponseJSON(c, http.StatusOK, "Login successful", resp)
}

// @Summary Get the family profile
// @Description Contact and subscription details for the authenticated session
// @Tags auth
// @Produce json
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Security BearerAuth
// @Router /api/v1/profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	cred, err := h.credentialSvc.GetCredential(sessionID(c))
	if err != nil {
		return err
	}

	resp := &dto.ProfileResponse{
		SessionID:  cred.SessionID,
		Email:      cred.Email,
		Subscribed: cred.Subscribed,
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
