package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/agenttrace/webservice/internal/dto"
	"github.com/agenttrace/webservice/internal/middleware"
	apperrors "github.com/agenttrace/webservice/internal/pkg/errors"
)

// ErrorHandler renders every error returned by a handler as the error
// envelope. Server errors are logged and, when enabled, reported to Sentry.
// Upstream failures are logged where they happen, so they are not logged again.
func ErrorHandler(logger *zap.Logger, sentryEnabled bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := toAppError(err)

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			if !apperrors.IsUpstreamFailure(err) {
				logger.Error("request error",
					zap.Int("status", appErr.StatusCode),
					zap.String("code", appErr.Code),
					zap.Error(err),
					zap.String("path", c.Path()),
					zap.String("method", c.Method()),
					zap.String("request_id", middleware.GetRequestID(c)),
				)
			}

			if sentryEnabled {
				middleware.CaptureError(c, err)
			}
		}

		return c.Status(appErr.StatusCode).JSON(dto.ErrorResponse{
			Error: dto.ErrorBody{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			},
		})
	}
}

// toAppError classifies err. Messages of unclassified errors are not exposed.
func toAppError(err error) *apperrors.AppError {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch {
		case fe.Code == fiber.StatusNotFound:
			return apperrors.NotFound("route").WithError(err)
		case fe.Code >= fiber.StatusInternalServerError:
			appErr := apperrors.Internal(fe.Message).WithError(err)
			appErr.StatusCode = fe.Code
			return appErr
		default:
			appErr := apperrors.BadRequest(fe.Message).WithError(err)
			appErr.StatusCode = fe.Code
			return appErr
		}
	}

	return apperrors.Internal(http.StatusText(http.StatusInternalServerError)).WithError(err)
}
