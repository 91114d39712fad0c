package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"homestay-service-server/database"
	"homestay-service-server/models"
)

// HandleStaffFeed attaches an authenticated staff member to the task feed.
// The feed scope is the hotel on the staff profile; managers and admins
// without a profile get the cross-hotel feed.
func HandleStaffFeed(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userValue, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user := userValue.(models.User)

		if !user.IsStaffRole() && !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff role required"})
			return
		}

		var hotelID uint
		var profile models.StaffProfile
		err := database.DB.Where("user_id = ? AND is_active = ?", user.ID, true).First(&profile).Error
		if err == nil {
			hotelID = profile.HotelID
		} else if user.Role == models.RoleStaff {
			log.Printf("❌ No active staff profile for user %d", user.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Active staff profile required"})
			return
		}

		ServeTaskFeed(hub, c.Writer, c.Request, user.ID, hotelID, string(user.Role))
	}
}
