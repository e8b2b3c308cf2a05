package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hany173g/OtakuZone-sub001/logger"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
)

// Fail answers an error in the standard {code,msg} JSON shape. Unknown
// errors become a generic 500 so internals never leak to the client.
func Fail(c *gin.Context, err error) {
	if ce := errs.Unwrap(err); ce != nil {
		c.JSON(errs.HTTPStatus(ce.Code), errs.CodeError{Code: ce.Code, Msg: ce.Msg})
		return
	}
	logger.Errorf("unhandled error on %s: %v", c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, errs.ErrServerInternal)
}

// OK wraps a success payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": data})
}
