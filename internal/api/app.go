package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/terraincognita07/askesis/internal/metrics"
)

const requestIDKey = "requestid"

type AppConfig struct {
	CORSAllowOrigins []string
	MetricsEnabled   bool
}

// NewApp builds the fiber application with the middleware chain and all
// routes registered.
func NewApp(handler *Handler, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Askesis",
		DisableStartupMessage: true,
		ErrorHandler:          handler.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	if len(cfg.CORSAllowOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.CORSAllowOrigins, ","),
			AllowHeaders: "Authorization, Content-Type",
			AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		}))
	}
	app.Use(handler.RequestLogger)

	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	return app
}

// RequestLogger writes one access log line per request and feeds the latency
// histogram. Errors are rendered here so the logged status is final.
func (handler *Handler) RequestLogger(c *fiber.Ctx) error {
	started := time.Now()
	if chainErr := c.Next(); chainErr != nil {
		if err := c.App().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	elapsed := time.Since(started)
	status := c.Response().StatusCode()
	route := c.Route().Path
	metrics.ObserveRequest(c.Method(), route, status, elapsed)

	fields := []interface{}{
		"request_id", c.Locals(requestIDKey),
		"method", c.Method(),
		"path", c.Path(),
		"route", route,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	}
	if user, ok := currentUser(c); ok {
		fields = append(fields, "user_id", user.ID)
	}
	switch {
	case status >= fiber.StatusInternalServerError:
		handler.logger.Error("http request", fields...)
	case status >= fiber.StatusBadRequest:
		handler.logger.Warn("http request", fields...)
	default:
		handler.logger.Info("http request", fields...)
	}
	return nil
}

func (handler *Handler) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}
	if status >= fiber.StatusInternalServerError {
		handler.logger.Error("unhandled request error", "request_id", c.Locals(requestIDKey), "error", err)
	}
	return apiError(c, status, message)
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
