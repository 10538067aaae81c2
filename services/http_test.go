package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Starefossen/NisseKomm-sub003/shared"
)

func TestErrorHandlerMapsStoreSentinels(t *testing.T) {
	svc := &HttpService{}
	app := fiber.New(fiber.Config{ErrorHandler: svc.errorHandler})

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing-session", shared.ErrSessionNotFound, http.StatusNotFound},
		{"backend-down", shared.ErrBackendUnavailable, http.StatusServiceUnavailable},
		{"write-conflict", shared.ErrConflict, http.StatusConflict},
		{"wrapped-backend-down", fmt.Errorf("read: %w", shared.ErrBackendUnavailable), http.StatusServiceUnavailable},
	}

	for i, tc := range cases {
		path := fmt.Sprintf("/case-%d", i)
		err := tc.err
		app.Get(path, func(c *fiber.Ctx) error {
			return err
		})

		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestErrorHandlerKeepsAppErrors(t *testing.T) {
	svc := &HttpService{}
	app := fiber.New(fiber.Config{ErrorHandler: svc.errorHandler})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "Unknown challenge")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
