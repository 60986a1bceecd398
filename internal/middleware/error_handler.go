package middleware

import (
	"fmt"
	"net/http"

	"verifiedMarket/pkg/apperror"
	"verifiedMarket/pkg/logger"

	jsonres "verifiedMarket/pkg/response"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorHandler is installed as echo's HTTPErrorHandler. Classified errors
// keep their message; anything unclassified is logged and hidden.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := renderError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled error",
			"error", err.Error(),
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}

func renderError(err error) (int, jsonres.Response) {
	if appErr, ok := apperror.As(err); ok {
		var data any
		if len(appErr.Fields) > 0 {
			data = appErr.Fields
		}
		return appErr.Kind.HTTPStatus(), jsonres.Error(appErr.Kind.String(), appErr.Message, data)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		} else if httpErr.Message != nil {
			message = fmt.Sprint(httpErr.Message)
		}
		return httpErr.Code, jsonres.Error(httpCode(httpErr.Code), message, nil)
	}

	return http.StatusInternalServerError, jsonres.Error(apperror.KindInternal.String(), "Internal server error", nil)
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apperror.KindValidation.String()
	case http.StatusUnauthorized:
		return apperror.KindAuthentication.String()
	case http.StatusForbidden:
		return apperror.KindAuthorization.String()
	case http.StatusNotFound:
		return apperror.KindNotFound.String()
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		if status >= http.StatusInternalServerError {
			return apperror.KindInternal.String()
		}
		return "HTTP_ERROR"
	}
}
