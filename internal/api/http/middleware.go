package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/observability"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

const requestIDHeader = "X-Request-ID"

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestIDMiddleware())
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("request_id", id)
		c.Set(requestIDHeader, id)
		return c.Next()
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders errors as {"error", "code", "details"?}.
// Internal causes are logged, never returned.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				route := c.Path()
				if r := c.Route(); r != nil && r.Path != "" {
					route = r.Path
				}
				metrics.RecordError(route, c.Method(), domainErr.Code)

				response := fiber.Map{
					"error": domainErr.Message,
					"code":  domainErr.Code,
				}
				if len(domainErr.Details) > 0 && domainErr.HTTPStatus < http.StatusInternalServerError {
					response["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= http.StatusInternalServerError {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.Any("request_id", c.Locals("request_id")),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := apperrors.CodeValidation
		switch {
		case fiberErr.Code == http.StatusNotFound:
			code = apperrors.CodeNotFound
		case fiberErr.Code == http.StatusRequestTimeout:
			code = "TIMEOUT"
		case fiberErr.Code >= http.StatusInternalServerError:
			return apperrors.ToDomainError(err)
		case fiberErr.Code != http.StatusBadRequest:
			code = http.StatusText(fiberErr.Code)
		}
		return apperrors.NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewDomainError("TIMEOUT", "request timed out", http.StatusGatewayTimeout, nil)
	}
	return apperrors.ToDomainError(err)
}
