package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homestay-service-server/database"
	"homestay-service-server/middleware"
	"homestay-service-server/models"
	"homestay-service-server/services"
)

// RegisterAdminRoutes registers the staff and hotel management surface.
// Everything here requires the staff management capability.
func RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireCapability(models.CapManageStaff))
	{
		admin.GET("/users", listUsers)
		admin.PATCH("/users/:id/role", setUserRole)

		admin.GET("/hotels", listHotels)
		admin.POST("/hotels", createHotel)

		admin.GET("/staff", listStaffProfiles)
		admin.POST("/staff", createStaffProfile)
		admin.PATCH("/staff/:id/active", setStaffActive)

		admin.GET("/feed/connections", listFeedConnections)
	}
}

// listFeedConnections reports which users hold an open task feed socket
func listFeedConnections(c *gin.Context) {
	if taskFeedHub == nil {
		c.JSON(http.StatusOK, gin.H{"user_ids": []uint{}, "count": 0})
		return
	}

	userIDs := taskFeedHub.ConnectedUsers()
	c.JSON(http.StatusOK, gin.H{"user_ids": userIDs, "count": len(userIDs)})
}

// pageParams clamps page/limit query parameters for admin lists
func pageParams(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return (page - 1) * limit, limit
}

// listUsers lists accounts, optionally filtered by role
func listUsers(c *gin.Context) {
	query := database.DB.Model(&models.User{})

	if role := models.Role(c.Query("role")); role != "" {
		if !role.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"kind":    services.KindValidation,
				"message": "unknown role",
			})
			return
		}
		query = query.Where("role = ?", role)
	}

	offset, limit := pageParams(c)

	var users []models.User
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "internal storage error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// setUserRole changes an account's role within the closed set. Only
// admins may grant or revoke the admin role.
func setUserRole(c *gin.Context) {
	actor := currentUser(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "user id must be a positive integer",
		})
		return
	}

	var body struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}
	if !body.Role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "unknown role",
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"kind":    services.KindNotFound,
			"message": "user not found",
		})
		return
	}

	if (body.Role == models.RoleAdmin || user.Role == models.RoleAdmin) && !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"kind":    services.KindValidation,
			"message": "only admins may change admin roles",
		})
		return
	}

	if err := database.DB.Model(&user).Update("role", body.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "internal storage error",
		})
		return
	}

	user.Role = body.Role
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// listHotels lists all active hotels
func listHotels(c *gin.Context) {
	var hotels []models.Hotel
	if err := database.DB.Where("is_active = ?", true).Order("name").Find(&hotels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "internal storage error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotels": hotels, "count": len(hotels)})
}

// createHotel adds a new property
func createHotel(c *gin.Context) {
	var body struct {
		Name    string `json:"name" binding:"required"`
		City    string `json:"city" binding:"required"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	hotel := models.Hotel{
		Name:     middleware.SanitizeInput(body.Name),
		City:     middleware.SanitizeInput(body.City),
		Address:  middleware.SanitizeInput(body.Address),
		IsActive: true,
	}
	if err := database.DB.Create(&hotel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "internal storage error",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"hotel": hotel})
}

// listStaffProfiles lists the staff directory, optionally per hotel
func listStaffProfiles(c *gin.Context) {
	query := database.DB.Model(&models.StaffProfile{}).
		Preload("User").
		Preload("Hotel")

	if hotelID, err := strconv.ParseUint(c.Query("hotel_id"), 10, 32); err == nil {
		query = query.Where("hotel_id = ?", uint(hotelID))
	}

	offset, limit := pageParams(c)

	var profiles []models.StaffProfile
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "internal storage error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": profiles, "count": len(profiles)})
}

// createStaffProfile attaches a user to a hotel's roster. The user's
// role is promoted to staff if they were a plain guest.
func createStaffProfile(c *gin.Context) {
	var body struct {
		UserID   uint   `json:"user_id" binding:"required"`
		HotelID  uint   `json:"hotel_id" binding:"required"`
		Position string `json:"position"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, body.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "user does not exist",
		})
		return
	}

	var hotel models.Hotel
	if err := database.DB.First(&hotel, body.HotelID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "hotel does not exist",
		})
		return
	}

	var existing models.StaffProfile
	if err := database.DB.Where("user_id = ?", body.UserID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"kind":    services.KindValidation,
			"message": "user already has a staff profile",
		})
		return
	}

	profile := models.StaffProfile{
		UserID:   body.UserID,
		HotelID:  body.HotelID,
		Position: middleware.SanitizeInput(body.Position),
		IsActive: true,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "internal storage error",
		})
		return
	}

	if user.Role == models.RoleGuest {
		database.DB.Model(&user).Update("role", models.RoleStaff)
	}

	c.JSON(http.StatusCreated, gin.H{"staff_profile": profile})
}

// setStaffActive toggles a staff member's roster status. Inactive staff
// cannot receive new assignments or appear in the task feed.
func setStaffActive(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "staff id must be a positive integer",
		})
		return
	}

	var body struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	var profile models.StaffProfile
	if err := database.DB.First(&profile, profileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"kind":    services.KindNotFound,
			"message": "staff profile not found",
		})
		return
	}

	if err := database.DB.Model(&profile).Update("is_active", *body.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "internal storage error",
		})
		return
	}

	profile.IsActive = *body.IsActive
	c.JSON(http.StatusOK, gin.H{"staff_profile": profile})
}
