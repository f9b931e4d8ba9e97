package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"notesapp/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler renders every error as {"error":{"code","message"}}.
// Internal failures are logged in full and answered with a generic message.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			code    string
			message string
		)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			code = codeForStatus(status)
			message = fmt.Sprint(he.Message)
			if status >= http.StatusInternalServerError {
				message = http.StatusText(status)
			}
		} else {
			code = common.ErrorCode(err)
			status = common.HTTPStatus(code)
			message = common.ErrorMessage(err)
		}

		if status >= http.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, common.CreateErrorResponse(code, message, nil))
		}
		if writeErr != nil {
			log.Warn("Failed to write error response", zap.Error(writeErr))
		}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return common.EInvalid
	case http.StatusUnauthorized:
		return common.EUnauthorized
	case http.StatusForbidden:
		return common.EForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return common.ENotFound
	case http.StatusConflict:
		return common.EConflict
	default:
		if status >= http.StatusInternalServerError {
			return common.EInternal
		}
		return common.EInvalid
	}
}
