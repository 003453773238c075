// middleware/security_headers.go
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityConfig controls the Content-Security-Policy emitted by
// SecurityHeadersWithConfig. AllowedDomains lists the frontends permitted as
// connect-src targets alongside 'self'.
type SecurityConfig struct {
	AllowedDomains []string
}

// DefaultSecurityConfig allows the portal and staff frontends.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		AllowedDomains: []string{
			"https://portal.versoholdings.com",
			"https://staff.versoholdings.com",
		},
	}
}

// SecurityHeadersWithConfig sets the standard security headers on every
// response. The API serves JSON only, so scripts and styles stay locked to
// 'self'.
func SecurityHeadersWithConfig(config SecurityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			h.Set("Content-Security-Policy", buildCSP(config))
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			// Remove potentially sensitive headers
			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}

func buildCSP(config SecurityConfig) string {
	csp := []string{
		"default-src 'self'",
		"img-src 'self' data:",
		"style-src 'self'",
		"script-src 'self'",
		"frame-ancestors 'none'",
	}

	if len(config.AllowedDomains) > 0 {
		csp = append(csp, "connect-src 'self' "+strings.Join(config.AllowedDomains, " "))
	}

	return strings.Join(csp, "; ")
}
