package routes

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"homestay-service-server/database"
	"homestay-service-server/models"
	"homestay-service-server/services"
)

// validateImageFile validates mimetype and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// RegisterRequestMediaRoutes adds the photo attachment endpoint
func RegisterRequestMediaRoutes(rg *gin.RouterGroup) {
	rg.POST("/guest-requests/:id/photos", uploadRequestPhotos)
}

// uploadRequestPhotos attaches one or more photos to a request. Guests
// document the problem at creation; staff add before/after shots while
// working it.
func uploadRequestPhotos(c *gin.Context) {
	user := currentUser(c)
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	request, err := requestService().Get(requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user.Role == models.RoleGuest && (request.GuestID == nil || *request.GuestID != user.ID) {
		c.JSON(http.StatusNotFound, gin.H{
			"kind":    services.KindNotFound,
			"message": (&services.NotFoundError{RequestID: requestID}).Error(),
		})
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil { // 10MB
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "invalid form data",
		})
		return
	}

	form := c.Request.MultipartForm
	headers := form.File["photos"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "no photos provided",
		})
		return
	}
	for _, header := range headers {
		if !validateImageFile(header) {
			c.JSON(http.StatusBadRequest, gin.H{
				"kind":    services.KindValidation,
				"message": fmt.Sprintf("invalid image file %q", header.Filename),
			})
			return
		}
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Printf("❌ Cloudinary environment variables not set")
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "photo storage not configured",
		})
		return
	}

	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName))
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":    services.KindPersistence,
			"message": "photo storage initialization failed",
		})
		return
	}

	ctx := context.Background()
	folder := "guest-requests/" + strconv.Itoa(int(requestID))

	var photos []models.RequestPhoto
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"kind":    services.KindValidation,
				"message": fmt.Sprintf("cannot read %q", header.Filename),
			})
			return
		}

		ow := true
		uf := true
		up, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:         folder,
			PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
			Overwrite:      &ow,
			UniqueFilename: &uf,
			ResourceType:   "image",
		})
		file.Close()
		if err != nil {
			log.Printf("❌ Photo upload failed for request %d: %v", requestID, err)
			c.JSON(http.StatusBadGateway, gin.H{
				"kind":    services.KindPersistence,
				"message": "photo upload failed",
			})
			return
		}

		photo := models.RequestPhoto{
			RequestID:    requestID,
			URL:          up.SecureURL,
			UploadedByID: user.ID,
		}
		if err := database.DB.Create(&photo).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"kind":    services.KindPersistence,
				"message": "internal storage error",
			})
			return
		}
		photos = append(photos, photo)
	}

	log.Printf("📸 %d photo(s) attached to request %d by user %d", len(photos), requestID, user.ID)

	c.JSON(http.StatusCreated, gin.H{"photos": photos})
}
