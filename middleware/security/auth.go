package security

import (
	"net/http"
	"strings"

	"AProject/logger"
	"AProject/tools/errs"

	"github.com/gin-gonic/gin"
)

type Options struct {
	// Header carrying the provider's shared secret.
	Header string
	Secret string
}

func DefaultOptions(secret string) *Options {
	return &Options{
		Header: "authorization",
		Secret: secret,
	}
}

// Middleware gates the webhook behind the provider's shared-secret header.
// Verification is a pass/fail equality check; signature mechanics live with
// the provider.
func Middleware(opts *Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := strings.TrimSpace(c.GetHeader(opts.Header))
		if opts.Secret == "" || got != opts.Secret {
			logger.Error("failed to authenticate request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized.WithDetail("authorization header failed to match requirements"))
			return
		}
		c.Next()
	}
}
