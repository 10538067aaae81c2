package middleware

import (
	"net/http"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"

	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/services"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc *services.JWTService
}

const AUTH_MIDDLEWARE_SVC = "auth"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	svc.jwtSvc = ctx.Service(services.JWT_SVC).(*services.JWTService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	return nil
}

// RequiredAuth pins the session id and role from the bearer token onto the
// request locals.
func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		}

		sessionID, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if sessionID == "" {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid session ID in token")
		}

		c.Locals(shared.SessionID, sessionID)
		c.Locals(shared.Role, role)
		return c.Next()
	}
}

// RequireGuardian allows only tokens minted from the guardian access code.
func (svc *AuthMiddleware) RequireGuardian() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(shared.Role).(string)
		if role != model.RoleGuardian {
			return shared.ResponseJSON(c, http.StatusForbidden, "Guardian access required", nil)
		}
		return c.Next()
	}
}
