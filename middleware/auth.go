package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	security "github.com/Hany173g/OtakuZone-sub001/tools/security"
)

// Context keys the modules read after the auth middleware ran.
const (
	CtxUserID = "userID"
)

// SessionCookie is where the login handler drops the session token for
// browser clients; API clients send Authorization: Bearer instead.
const SessionCookie = "session"

// Auth verifies the HTTP session token and stores the caller's user id in
// the gin context. The header wins over the cookie.
func Auth(opts security.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			abort(c, &errs.ErrUnauthenticated)
			return
		}
		claims, err := security.Verify(opts, token, security.ScopeSession)
		if err != nil {
			if stderrors.Is(err, jwtlib.ErrTokenExpired) {
				abort(c, &errs.ErrTokenExpired)
				return
			}
			abort(c, &errs.ErrTokenInvalid)
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return strings.TrimSpace(authz[len("bearer "):])
		}
	}
	if ck, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(ck)
	}
	return ""
}

func abort(c *gin.Context, ce *errs.CodeError) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ce)
}
