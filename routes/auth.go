package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homestay-service-server/database"
	"homestay-service-server/middleware"
	"homestay-service-server/models"
	"homestay-service-server/services"
	"homestay-service-server/utils"
)

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", signUp)
		auth.POST("/login", logIn)
		auth.POST("/refresh", refreshAccessToken)
		auth.POST("/logout", logOut)
		auth.GET("/me", middleware.AuthMiddleware(), getCurrentUser)
	}
}

type signUpRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// signUp creates a new guest account. Staff and manager accounts are
// provisioned through the admin surface, never by self-signup.
func signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	phone := utils.NormalizePhoneNumber(req.PhoneNumber)
	if !middleware.ValidatePhoneNumber(phone) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid phone number",
			"message": "Phone number must include a country code, e.g. +22212345678",
		})
		return
	}

	if ok, problems := middleware.ValidatePasswordStrength(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Weak password",
			"message": problems,
		})
		return
	}

	var existing models.User
	if err := database.DB.Where("phone_number = ?", phone).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Account exists",
			"message": "An account with this phone number already exists",
		})
		return
	}

	jwtService := services.NewJWTService()

	hash, err := jwtService.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := models.User{
		FullName:     middleware.SanitizeInput(req.FullName),
		PhoneNumber:  phone,
		PasswordHash: hash,
		Role:         models.RoleGuest,
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(&user, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

type logInRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// logIn authenticates by phone number and password
func logIn(c *gin.Context) {
	var req logInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	jwtService := services.NewJWTService()
	phone := utils.NormalizePhoneNumber(req.PhoneNumber)

	var user models.User
	if err := database.DB.Where("phone_number = ?", phone).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"message": "Phone number or password is incorrect",
		})
		return
	}

	if !jwtService.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"message": "Phone number or password is incorrect",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Account deactivated",
			"message": "This account has been deactivated",
		})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(&user, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// refreshAccessToken exchanges a refresh token for a fresh access token
func refreshAccessToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	tokens, err := services.NewJWTService().RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid refresh token",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// logOut revokes the presented refresh token
func logOut(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	if err := services.NewJWTService().RevokeRefreshToken(req.RefreshToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid refresh token",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// getCurrentUser returns the authenticated user's profile
func getCurrentUser(c *gin.Context) {
	user := currentUser(c)

	response := gin.H{"user": user}

	var profile models.StaffProfile
	if err := database.DB.Preload("Hotel").Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
		response["staff_profile"] = profile
	}

	c.JSON(http.StatusOK, response)
}
