// Package api implements the HTTP inbound adapter for the control plane.
//
// The adapter translates wire requests into orchestration commands and
// orchestration results into wire responses. It owns everything
// HTTP-specific: routing, request validation, the shared-secret gate,
// security headers and the sanitized error mapping. No storage error text
// ever reaches a client.
//
// Routes:
//   - POST /servers                  create a server
//   - GET  /servers                  list all servers
//   - POST /servers/:id/disks        attach a disk
//   - GET  /api-doc/openapi.json     API description (no auth)
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/vaporstack/vapor/internal/logger"
	"github.com/vaporstack/vapor/internal/ratelimit"
	"github.com/vaporstack/vapor/pkg/service"
)

// Config contains configuration for the HTTP API adapter.
type Config struct {
	// Host is the address to bind to. Default: all interfaces.
	Host string

	// Port to listen on. Default: 8080.
	Port int

	// APIKey is the shared secret every request must present in the
	// X-API-Key header (required).
	APIKey string

	// ReadTimeout bounds how long reading a request may take.
	ReadTimeout time.Duration

	// WriteTimeout bounds how long writing a response may take.
	WriteTimeout time.Duration

	// RateLimit is the sustained request rate in requests per second.
	// Zero disables rate limiting.
	RateLimit uint

	// RateLimitBurst is the burst capacity above the sustained rate.
	RateLimitBurst uint

	// ShutdownTimeout bounds the graceful shutdown Serve initiates on
	// context cancellation. Default: 10 seconds.
	ShutdownTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 8080
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// API is the HTTP adapter. It implements adapter.Adapter so the lifecycle
// orchestrator can manage it.
type API struct {
	cfg          Config
	svc          *service.ComputeService
	app          *fiber.App
	shutdownOnce sync.Once
}

// New creates the HTTP adapter with its routes and middleware registered.
//
// Panics if svc is nil or cfg.APIKey is empty: both indicate a wiring bug,
// and an API without a shared secret must never come up by accident.
func New(cfg Config, svc *service.ComputeService) *API {
	if svc == nil {
		panic("compute service cannot be nil")
	}
	if cfg.APIKey == "" {
		panic("api key cannot be empty")
	}
	cfg.applyDefaults()

	app := fiber.New(fiber.Config{
		AppName:               "vapord",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          errorHandler,
	})

	a := &API{
		cfg: cfg,
		svc: svc,
		app: app,
	}

	app.Use(recover.New())
	app.Use(securityHeaders())
	app.Use(requestLogger())
	if cfg.RateLimit > 0 {
		app.Use(rateLimit(ratelimit.New(cfg.RateLimit, cfg.RateLimitBurst)))
	}

	// Registered before the auth gate: the API description carries no
	// state and is readable without a key.
	app.Get("/api-doc/openapi.json", a.handleOpenAPIDocument)

	app.Use(apiKeyAuth(cfg.APIKey))

	app.Post("/servers", a.handleCreateServer)
	app.Get("/servers", a.handleListServers)
	app.Post("/servers/:id/disks", a.handleAttachDisk)

	return a
}

// App exposes the underlying Fiber app for tests (app.Test).
func (a *API) App() *fiber.App {
	return a.app
}

// Name implements adapter.Adapter.
func (a *API) Name() string {
	return "http-api"
}

// Serve starts the listener and blocks until the context is cancelled or
// the listener fails.
func (a *API) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.cfg.Host, a.cfg.Port)
	errCh := make(chan error, 1)

	go func() {
		logger.Info("HTTP API listening on %s", addr)
		errCh <- a.app.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		_ = a.Stop(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts down the listener, waiting for in-flight requests
// up to the context deadline. Idempotent.
func (a *API) Stop(ctx context.Context) error {
	var err error
	a.shutdownOnce.Do(func() {
		err = a.app.ShutdownWithContext(ctx)
	})
	return err
}

// errorHandler sanitizes every error that escapes a handler. Internal
// error text is logged, never sent to the client.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	var message string
	switch code {
	case fiber.StatusNotFound:
		message = "Resource not found"
	case fiber.StatusMethodNotAllowed:
		message = "Method not allowed"
	case fiber.StatusRequestEntityTooLarge:
		message = "Payload too large"
	default:
		message = "An internal error occurred"
	}

	if code >= fiber.StatusInternalServerError {
		logger.Error("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
