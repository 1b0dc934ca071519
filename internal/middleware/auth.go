package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TokenCookie carries the session token for browser navigation.
const TokenCookie = "habitask_token"

// TokenFromRequest looks for a token in the Authorization header, the
// ?token= query parameter (downloads) and the session cookie, in that order.
func TokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if tok := c.Query("token"); tok != "" {
		return tok
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware resolves the principal for the request and stores it under
// authz.ContextKey. It never rejects a request: handlers decide whether a
// principal is required, so a missing or invalid token just leaves the
// request anonymous.
func AuthMiddleware(jwtSecret, issuer string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := util.ParseToken(jwtSecret, issuer, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			c.Next()
			return
		}

		var user models.User
		err = db.WithContext(c.Request.Context()).Where("id = ?", claims.UserID).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// deleted account, stale token
		case err != nil:
			util.Fail(c, err)
			c.Abort()
			return
		default:
			c.Set(authz.ContextKey, &user)
		}
		c.Next()
	}
}
