package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/ozclean/cleaning-app/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades, which carry
// the token as a query parameter because browsers cannot set headers on
// websocket connections.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("role", claims.Role)
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}
