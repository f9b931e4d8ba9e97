package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIVersion describes one served API version
type APIVersion struct {
	Version string `json:"version"`
	Status  string `json:"status"` // "active" or "deprecated"
	Message string `json:"message,omitempty"`
}

// VersionMiddleware stamps responses with the API version and rejects unknown version prefixes
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable notes API"},
		},
		defaultVersion: "v1",
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			if ver, ok := vm.supportedVersions[version]; ok && ver.Status == "deprecated" {
				c.Response().Header().Set("X-API-Deprecated", "true")
			}
			return next(c)
		}
	}
}

// APIVersionResolver stores the requested version under "api_version" and
// answers 404 for a /vN prefix that is not served.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersion(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if _, ok := vm.supportedVersions[version]; !ok {
				return echo.NewHTTPError(http.StatusNotFound, "Unsupported API version")
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

func extractVersion(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if len(segment) < 2 || segment[0] != 'v' {
		return ""
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return segment
}
