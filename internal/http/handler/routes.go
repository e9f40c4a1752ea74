package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/YoonkyungKim/fragments/internal/service"
)

// HealthCheck reports readiness: it requires DB connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint with no dependency checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. All fragment
// routes sit under /v1 behind the auth middleware; health and docs stay open.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.FragmentService, auth fiber.Handler, apiURL string) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Fragments API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Simple liveness probe
	app.Get("/healthz", LivenessProbe())

	v1 := app.Group("/v1", auth)
	v1.Post("/fragments", CreateFragment(svc, apiURL))
	v1.Get("/fragments", ListFragments(svc))
	// The /info route must be registered before the catch-all :id route.
	v1.Get("/fragments/:id/info", GetFragmentInfo(svc))
	v1.Get("/fragments/:id", GetFragmentData(svc))
	v1.Put("/fragments/:id", UpdateFragment(svc))
	v1.Delete("/fragments/:id", DeleteFragment(svc))
}
