package auth

import (
	"pair-lab/domain"
	"pair-lab/errors"
	"strings"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// RequireIdentity resolves the bearer token into the caller identity and
// stores it in the gin context. Requests without a valid token stop here.
func RequireIdentity(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, errors.ErrMissingAuth)
			return
		}
		// Expecting the standard "Bearer <token>" format
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := ValidateToken(secret, tokenStr)
		if err != nil {
			abort(c, errors.ErrInvalidAuth)
			return
		}
		c.Set(callerKey, claims.Member())
		c.Next()
	}
}

// Caller returns the identity stored by RequireIdentity.
func Caller(c *gin.Context) (domain.Member, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return domain.Member{}, false
	}
	member, ok := value.(domain.Member)
	return member, ok && !member.IsZero()
}

func abort(c *gin.Context, err error) {
	status, msg := errors.MapToHTTPStatus(err)
	c.AbortWithStatusJSON(status, gin.H{"msg": msg})
}
