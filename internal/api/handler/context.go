package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/serverapp/account-api/internal/core/domain"
)

// claimsContextKey is the echo context key the Auth middleware stores parsed
// token claims under.
const claimsContextKey = "claims"

// ctxClaims extracts the token claims injected by the Auth middleware.
// Presence proves the middleware ran; a missing value means the route was
// wired without it and the request must not proceed.
func ctxClaims(c echo.Context) (*domain.TokenClaims, error) {
	claims, _ := c.Get(claimsContextKey).(*domain.TokenClaims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
