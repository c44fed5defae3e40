package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/utils"
)

// RequirePermission loads the acting admin's permission flags and refuses
// the request before any handler write when the flag is missing. Super
// admins bypass every flag.
func RequirePermission(db *gorm.DB, perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDInterface, exists := c.Get("user_id")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}
		userID, ok := userIDInterface.(uint)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id"))
			c.Abort()
			return
		}

		var detail models.AdminDetail
		if err := db.Where("user_id = ?", userID).First(&detail).Error; err != nil {
			utils.RespondError(c, http.StatusForbidden, errors.New("admin profile not found"))
			c.Abort()
			return
		}

		if !detail.Has(perm) {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("missing permission: %s", perm))
			c.Abort()
			return
		}

		c.Set("admin_detail", &detail)
		c.Next()
	}
}

// RequireSuperAdmin restricts a route to super admins only; individual
// permission flags do not qualify.
func RequireSuperAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		var detail models.AdminDetail
		if err := db.Where("user_id = ?", userID).First(&detail).Error; err != nil || !detail.IsSuperAdmin {
			utils.RespondError(c, http.StatusForbidden, errors.New("super admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
