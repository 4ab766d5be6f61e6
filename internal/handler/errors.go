package handler

import (
	"errors"
	"fmt"
	"net/http"

	"storefront-api/internal/apperr"
	"storefront-api/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler renders every error as {"success": false, "message": ...}.
// Causes of internal errors are logged and never sent to the client.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"
		log := logger.FromContext(c.Request().Context())

		var appErr *apperr.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = apperr.StatusCode(appErr.Kind)
			message = appErr.Message
			if appErr.Kind == apperr.KindInternal {
				log.Error(appErr.Message,
					zap.String("method", c.Request().Method),
					zap.String("path", c.Path()),
					zap.Error(appErr.Err),
				)
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
			if status >= http.StatusInternalServerError {
				log.Error("http error", zap.Error(err))
			}
		default:
			log.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"success": false, "message": message})
		}
		if err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}

func bindError() error {
	return apperr.Validation("Invalid request body")
}
