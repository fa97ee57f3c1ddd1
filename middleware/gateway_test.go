package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func gatewayTestApp(t *testing.T, token string) *fiber.App {
	t.Helper()
	t.Setenv("GAME_SERVICE_TOKEN", token)

	app := fiber.New()
	app.Use(GatewayAuthMiddleware())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestGatewayAuth(t *testing.T) {
	app := gatewayTestApp(t, "secret")

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"bearer token", "Bearer secret", fiber.StatusOK},
		{"raw token", "secret", fiber.StatusOK},
		{"wrong token", "Bearer nope", fiber.StatusUnauthorized},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/ping", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.name, err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.want)
		}
	}
}

// An unset token must lock the service down, not open it up. In particular
// "Bearer " trims to the empty string and must not match an empty expected
// token.
func TestGatewayAuthUnconfiguredTokenRejectsAll(t *testing.T) {
	app := gatewayTestApp(t, "")

	for _, header := range []string{"", "Bearer ", "Bearer secret"} {
		req := httptest.NewRequest("GET", "/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("header %q: request failed: %v", header, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, resp.StatusCode)
		}
	}
}
