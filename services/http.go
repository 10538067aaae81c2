package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/Starefossen/NisseKomm-sub003/services/handlers"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

type HttpService struct {
	context.DefaultService

	jwtSvc         *JWTService
	credentialSvc  *CredentialService
	progressionSvc *ProgressionService
	rateLimitSvc   *RateLimitService
	monitoringSvc  *MonitoringService

	authHandler     *handlers.AuthHandler
	progressHandler *handlers.ProgressHandler
	calendarHandler *handlers.CalendarHandler

	port int
	app  *fiber.App
}

// authProvider is implemented by the auth middleware service. Declared here
// so the http service can look it up by id without importing the middleware
// package.
type authProvider interface {
	RequiredAuth() fiber.Handler
	RequireGuardian() fiber.Handler
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.credentialSvc = svc.Service(CREDENTIAL_SVC).(*CredentialService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	auth := svc.Service("auth").(authProvider)

	svc.authHandler = handlers.NewAuthHandler(svc.credentialSvc, svc.jwtSvc)
	svc.progressHandler = handlers.NewProgressHandler(svc.progressionSvc)
	svc.calendarHandler = handlers.NewCalendarHandler(svc.progressionSvc)

	app := fiber.New(fiber.Config{
		AppName:      "NisseKomm API",
		ErrorHandler: svc.errorHandler,
	})
	svc.app = app

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))
	app.Use(svc.countRequests)
	app.Use(svc.rateLimitSvc.IPRateLimit())

	app.Get("/ping", svc.ping)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	v1.Post("/register", svc.rateLimitSvc.RateLimit("register"), svc.authHandler.Register)
	v1.Post("/login", svc.rateLimitSvc.RateLimit("login"), svc.authHandler.Login)

	authed := v1.Group("", auth.RequiredAuth())

	authed.Get("/profile", svc.authHandler.Profile)
	authed.Get("/calendar", svc.calendarHandler.GetCalendar)
	authed.Get("/progress", svc.calendarHandler.GetProgress)
	authed.Get("/content", svc.calendarHandler.GetVisibleContent)
	authed.Get("/badges", svc.calendarHandler.GetBadges)

	authed.Post("/code", svc.rateLimitSvc.RateLimit("submit_code"), svc.progressHandler.SubmitCode)
	authed.Post("/attempts/failed", svc.progressHandler.RecordFailedAttempt)
	authed.Post("/symbol", svc.progressHandler.CollectSymbol)
	authed.Post("/decrypt", svc.rateLimitSvc.RateLimit("decrypt"), svc.progressHandler.AttemptDecryption)
	authed.Post("/crisis", svc.rateLimitSvc.RateLimit("crisis"), svc.progressHandler.ResolveCrisis)
	authed.Post("/emails/viewed", svc.progressHandler.MarkEmailViewed)
	authed.Put("/names/players", svc.progressHandler.UpdatePlayerNames)
	authed.Put("/names/friends", svc.progressHandler.UpdateFriendNames)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	log.WithField("port", svc.port).Info("HTTP server listening")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) countRequests(c *fiber.Ctx) error {
	err := c.Next()
	CountRequest(c.Route().Path, c.Method(), c.Response().StatusCode())
	return err
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	// Store sentinels bubble out of the engine untyped.
	if errors.Is(err, shared.ErrSessionNotFound) ||
		errors.Is(err, shared.ErrBackendUnavailable) ||
		errors.Is(err, shared.ErrConflict) {
		appErr := shared.FromStoreError(err)
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, nil)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
