package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/service-cart/internal/model"
)

const (
	principalKey = "principal"
	CartIDHeader = "X-Cart-ID"
)

type TokenParser interface {
	Parse(raw string) (model.Principal, error)
}

// Session resolves the cart owner: a bearer token wins, then X-Cart-ID, and
// otherwise a new anonymous cart id is issued in the response header.
func Session(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
				return
			}
			principal, err := parser.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.Set(principalKey, principal)
			c.Next()
			return
		}

		cartID := strings.TrimSpace(c.GetHeader(CartIDHeader))
		if cartID == "" {
			cartID = uuid.NewString()
		} else if _, err := uuid.Parse(cartID); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + CartIDHeader})
			return
		}

		c.Header(CartIDHeader, cartID)
		c.Set(principalKey, model.Principal{Kind: model.PrincipalAnonymous, Subject: cartID})
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}
