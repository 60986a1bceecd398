package rest

import (
	"strconv"
	"time"

	"verifiedMarket/pkg/apperror"

	"github.com/labstack/echo/v4"
)

const defaultTimeout = 10 * time.Second

// pathID parses a positive numeric path parameter. Anything else cannot
// name a stored record and is reported as not found.
func pathID(c echo.Context, name, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound(notFound)
	}
	return uint(id), nil
}

// asBadRequest reports credential and missing-profile failures of login
// endpoints as 400, keeping the message.
func asBadRequest(err error) error {
	appErr, ok := apperror.As(err)
	if !ok {
		return err
	}

	switch appErr.Kind {
	case apperror.KindAuthentication, apperror.KindAuthorization:
		return apperror.Validation(appErr.Message)
	}
	return err
}

func bindBody(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.Validation("Malformed request body.")
	}
	return nil
}
