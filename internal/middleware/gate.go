package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/config"

	"github.com/gin-gonic/gin"
)

// RouteGate redirects browser navigation: anonymous callers are sent from
// protected prefixes to the sign-in page, signed-in callers are sent from
// the auth pages to the home page. API calls pass through untouched.
// It must run after AuthMiddleware.
func RouteGate(cfg config.GateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !isNavigation(c.Request) || strings.HasPrefix(path, "/api/") || path == "/api" {
			c.Next()
			return
		}

		signedIn := authz.Principal(c) != nil

		if !signedIn && hasPrefix(path, cfg.ProtectedPrefixes) {
			target := cfg.SignInPath + "?callbackUrl=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		if signedIn && matchesPage(path, cfg.AuthPages) {
			c.Redirect(http.StatusFound, cfg.HomePath)
			c.Abort()
			return
		}

		c.Next()
	}
}

func isNavigation(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// hasPrefix matches whole path segments, so "/dashboard" covers
// "/dashboard/tasks" but not "/dashboards".
func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func matchesPage(path string, pages []string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, p := range pages {
		if path == strings.TrimSuffix(p, "/") {
			return true
		}
	}
	return false
}
