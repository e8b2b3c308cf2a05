package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hany173g/OtakuZone-sub001/logger"
	"github.com/Hany173g/OtakuZone-sub001/middleware"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	security "github.com/Hany173g/OtakuZone-sub001/tools/security"
)

// TokenHandler converts an authenticated HTTP session into a socket-scoped
// credential. Long-lived connections cannot reliably carry the session
// cookie on every transport, so the handshake is bridged through this
// narrow, time-boxed token instead. Stateless: nothing is stored.
func TokenHandler(opts security.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.CtxUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, errs.ErrUnauthenticated)
			return
		}
		token, _, err := security.Issue(opts, userID, security.ScopeSocket)
		if err != nil {
			logger.Errorf("socket token issue failed user=%s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, errs.ErrServerInternal)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
