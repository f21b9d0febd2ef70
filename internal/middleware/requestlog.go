package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/metrics"
)

// RequestLogger logs every request and records it in the HTTP metrics.
func RequestLogger(logger zerolog.Logger, m *metrics.Metrics) fiber.Handler {
	logger = logger.With().Str("component", "http").Logger()

	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		method := c.Method()
		path := c.Path()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the app error handler has not written the response yet
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := path
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		elapsed := time.Since(start)
		m.RecordHTTP(method, route, status, elapsed.Seconds())

		userID := "anonymous"
		if uc := GetUserContext(c); uc != nil {
			userID = uc.UserID
		}

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = logger.Error()
		case status >= 400:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}
		ev.Str("request_id", requestid.FromContext(c)).
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Int64("duration_ms", elapsed.Milliseconds()).
			Str("user_id", userID).
			Msg("request")

		return err
	}
}
