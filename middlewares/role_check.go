package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/utils"
)

// RequireRole restricts a route group to one role. Admins pass every
// check except the customer dashboard, which is strictly customer-owned
// data.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if userRole == role {
			c.Next()
			return
		}
		if userRole == models.RoleAdmin && role != models.RoleCustomer {
			c.Next()
			return
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", role))
		c.Abort()
	}
}
