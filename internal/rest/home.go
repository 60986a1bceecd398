package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const WelcomeMessage = "Welcome to the Verified Seller System!"

func Home(c echo.Context) error {
	return c.String(http.StatusOK, WelcomeMessage)
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
