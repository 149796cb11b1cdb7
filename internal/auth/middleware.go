package auth

import (
	"github.com/gin-gonic/gin"

	"gamereview/backend/internal/apperr"
)

const (
	// TokenHeader carries the identity token on authenticated requests.
	TokenHeader = "x-auth-token"
	userIDKey   = "userID"
)

// TokenParser verifies a token and returns the user it was issued for.
type TokenParser interface {
	ParseToken(token string) (uint, error)
}

// RequireToken rejects requests without a valid token in TokenHeader and
// stores the token's user ID in the context for the handlers after it.
func RequireToken(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(TokenHeader)
		if tokenString == "" {
			abort(c, apperr.Unauthorized("no token, authorization denied"))
			return
		}

		userID, err := tokens.ParseToken(tokenString)
		if err != nil {
			abort(c, apperr.Wrap(apperr.KindUnauthorized, "token is not valid", err))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abort(c *gin.Context, err *apperr.Error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.Kind.Status(), gin.H{"message": err.Message})
}

// UserID returns the authenticated user set by RequireToken.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
