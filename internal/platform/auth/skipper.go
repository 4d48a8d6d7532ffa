package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// IsPublicPath reports whether a route is an unauthenticated probe: the
// health checks and the Prometheus scrape endpoint.
func IsPublicPath(path string) bool {
	switch {
	case path == "/metrics", path == "/health":
		return true
	case strings.HasPrefix(path, "/health/"):
		return true
	}
	return false
}

// AuthSkipper is the JWT middleware skipper for probe routes. It matches the
// registered route, not the raw URL.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Path())
}
