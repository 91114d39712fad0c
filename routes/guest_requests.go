package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homestay-service-server/config"
	"homestay-service-server/database"
	"homestay-service-server/middleware"
	"homestay-service-server/models"
	"homestay-service-server/services"
	"homestay-service-server/websocket"
)

var taskFeedHub *websocket.Hub

// InitTaskFeed wires the routes package to the running feed hub so
// lifecycle handlers can push events to staff dashboards
func InitTaskFeed(hub *websocket.Hub) {
	taskFeedHub = hub
}

// RegisterGuestRequestRoutes registers all guest service request routes
func RegisterGuestRequestRoutes(router *gin.RouterGroup) {
	requests := router.Group("/guest-requests")
	{
		requests.POST("", createGuestRequest)
		requests.GET("", listGuestRequests)
		requests.GET("/my-tasks", getMyTasks)
		requests.GET("/summary/statistics", middleware.RequireCapability(models.CapViewStats), getRequestStatistics)
		requests.GET("/:id", getGuestRequest)
		requests.PUT("/:id", middleware.RequireCapability(models.CapEditRequest), updateGuestRequest)
		requests.DELETE("/:id", middleware.RequireCapability(models.CapDeleteRequest), deleteGuestRequest)
		requests.PATCH("/:id/assign", middleware.RequireCapability(models.CapAssignRequest), assignGuestRequest)
		requests.PATCH("/:id/accept", middleware.RequireCapability(models.CapWorkRequest), acceptGuestRequest)
		requests.PATCH("/:id/start", middleware.RequireCapability(models.CapWorkRequest), startGuestRequest)
		requests.PATCH("/:id/complete", middleware.RequireCapability(models.CapWorkRequest), completeGuestRequest)
		requests.PATCH("/:id/cancel", cancelGuestRequest)
	}
}

// requestService builds the lifecycle service with the configured policy
func requestService() *services.RequestService {
	return services.NewRequestService(database.GetDB()).
		WithStrictAssignment(config.AppConfig.Policy.AssignmentStrict)
}

// currentUser pulls the authenticated user out of the gin context
func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

// parseRequestID reads the :id path parameter
func parseRequestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "request id must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// respondError maps a service error kind to its HTTP status. Every error
// body is {kind, message} so clients branch on kind, not status text.
func respondError(c *gin.Context, err error) {
	kind := services.ErrorKind(err)

	status := http.StatusInternalServerError
	switch kind {
	case services.KindValidation, services.KindInvalidAssignment:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindInvalidTransition:
		status = http.StatusConflict
	}

	message := err.Error()
	if kind == services.KindPersistence {
		// Do not leak driver errors to clients
		message = "internal storage error"
	}

	c.JSON(status, gin.H{"kind": kind, "message": message})
}

// requestView strips fields the caller's role may not see
func requestView(request *models.GuestServiceRequest, user models.User) models.GuestServiceRequest {
	view := *request
	if !user.Can(models.CapViewCharges) {
		view.AdditionalCharges = nil
	}
	return view
}

func requestViews(requests []models.GuestServiceRequest, user models.User) []models.GuestServiceRequest {
	views := make([]models.GuestServiceRequest, 0, len(requests))
	for i := range requests {
		views = append(views, requestView(&requests[i], user))
	}
	return views
}

// notifyTaskFeed pushes a lifecycle event to the hotel's staff dashboards
func notifyTaskFeed(eventType string, request *models.GuestServiceRequest) {
	if taskFeedHub == nil {
		return
	}
	taskFeedHub.BroadcastRequestEvent(eventType, request.ID, request.HotelID, gin.H{
		"status":       request.Status,
		"request_type": request.RequestType,
		"priority":     request.Priority,
	})
}

// staffHotelID resolves the active staff profile's hotel for scoping.
// Returns zero when the user has no profile.
func staffHotelID(userID uint) uint {
	var profile models.StaffProfile
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).First(&profile).Error; err != nil {
		return 0
	}
	return profile.HotelID
}

// createGuestRequest creates a new service request in pending status
func createGuestRequest(c *gin.Context) {
	user := currentUser(c)

	var input models.GuestServiceRequestCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	// Guests may only file against their own bookings
	if user.Role == models.RoleGuest {
		var booking models.Booking
		if err := database.DB.First(&booking, input.BookingID).Error; err != nil || booking.GuestID != user.ID {
			c.JSON(http.StatusBadRequest, gin.H{
				"kind":    services.KindValidation,
				"message": "booking does not belong to you",
			})
			return
		}
	}

	request, err := requestService().Create(input, user)
	if err != nil {
		respondError(c, err)
		return
	}

	notifyTaskFeed("request_created", request)

	c.JSON(http.StatusCreated, gin.H{"request": requestView(request, user)})
}

// listGuestRequests lists requests scoped to the caller's role: guests
// see their own, staff their hotel, managers and admins any hotel
func listGuestRequests(c *gin.Context) {
	user := currentUser(c)

	filters := services.RequestFilters{
		Status:      models.RequestStatus(c.Query("status")),
		RequestType: models.RequestType(c.Query("request_type")),
		Priority:    models.RequestPriority(c.Query("priority")),
	}
	if assignedTo, err := strconv.ParseUint(c.Query("assigned_to"), 10, 32); err == nil {
		filters.AssignedToID = uint(assignedTo)
	} else if c.Query("assigned_to") == "none" {
		filters.Unassigned = true
	}

	switch user.Role {
	case models.RoleGuest:
		filters.GuestID = user.ID
	case models.RoleStaff:
		hotelID := staffHotelID(user.ID)
		if hotelID == 0 {
			c.JSON(http.StatusForbidden, gin.H{
				"kind":    services.KindValidation,
				"message": "no active staff profile",
			})
			return
		}
		filters.HotelID = hotelID
	default:
		if hotelID, err := strconv.ParseUint(c.Query("hotel_id"), 10, 32); err == nil {
			filters.HotelID = uint(hotelID)
		}
	}

	requests, err := requestService().List(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requestViews(requests, user),
		"count":    len(requests),
	})
}

// getGuestRequest returns one request with its associations
func getGuestRequest(c *gin.Context) {
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

	// Guests only see their own requests; hide existence of others
	if user.Role == models.RoleGuest && (request.GuestID == nil || *request.GuestID != user.ID) {
		c.JSON(http.StatusNotFound, gin.H{
			"kind":    services.KindNotFound,
			"message": (&services.NotFoundError{RequestID: requestID}).Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": requestView(request, user)})
}

// getMyTasks returns the staff task list: requests assigned to the
// caller plus unassigned ones at their hotel
func getMyTasks(c *gin.Context) {
	user := currentUser(c)

	if !user.Can(models.CapWorkRequest) {
		c.JSON(http.StatusForbidden, gin.H{
			"kind":    services.KindValidation,
			"message": "staff role required",
		})
		return
	}

	var profile models.StaffProfile
	if err := database.DB.Where("user_id = ? AND is_active = ?", user.ID, true).First(&profile).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"kind":    services.KindValidation,
			"message": "no active staff profile",
		})
		return
	}

	status := models.RequestStatus(c.Query("status"))
	svc := requestService()

	assigned, err := svc.List(services.RequestFilters{
		AssignedToID: profile.ID,
		Status:       status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	unassigned, err := svc.List(services.RequestFilters{
		HotelID:    profile.HotelID,
		Unassigned: true,
		Status:     status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assigned":   requestViews(assigned, user),
		"unassigned": requestViews(unassigned, user),
	})
}

// getRequestStatistics returns per-status counts and team activity
func getRequestStatistics(c *gin.Context) {
	user := currentUser(c)

	var hotelID uint
	if user.Role == models.RoleStaff {
		hotelID = staffHotelID(user.ID)
		if hotelID == 0 {
			c.JSON(http.StatusForbidden, gin.H{
				"kind":    services.KindValidation,
				"message": "no active staff profile",
			})
			return
		}
	} else if parsed, err := strconv.ParseUint(c.Query("hotel_id"), 10, 32); err == nil {
		hotelID = uint(parsed)
	}

	includeIdle := c.Query("include_idle") == "true"

	stats := services.NewStatsService(database.GetDB())

	counts, err := stats.CountsByStatus(hotelID)
	if err != nil {
		respondError(c, err)
		return
	}

	activity, err := stats.TeamActivity(hotelID, includeIdle)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"by_status":     counts.ByStatus,
		"total":         counts.Total,
		"team_activity": activity,
	})
}

// updateGuestRequest applies an administrative field patch. Status and
// completion time are not patchable here; they move only through the
// lifecycle endpoints.
func updateGuestRequest(c *gin.Context) {
	user := currentUser(c)
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	var patch models.GuestServiceRequestUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	request, err := requestService().Update(requestID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	notifyTaskFeed("request_updated", request)

	c.JSON(http.StatusOK, gin.H{"request": requestView(request, user)})
}

// deleteGuestRequest hard-removes a request (administrative override)
func deleteGuestRequest(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := requestService().Delete(requestID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}

// assignGuestRequest sets the assignee without touching status
func assignGuestRequest(c *gin.Context) {
	user := currentUser(c)
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	var body struct {
		StaffID uint `json:"staff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	request, err := requestService().Assign(requestID, body.StaffID, user)
	if err != nil {
		respondError(c, err)
		return
	}

	notifyTaskFeed("request_assigned", request)
	// Direct ping on top of the hotel broadcast, for the assignee only
	if taskFeedHub != nil && request.AssignedTo != nil && taskFeedHub.IsUserConnected(request.AssignedTo.UserID) {
		taskFeedHub.SendToUser(request.AssignedTo.UserID, &websocket.Event{
			Type:      "task_assigned",
			RequestID: request.ID,
			HotelID:   request.HotelID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"request": requestView(request, user)})
}

// acceptGuestRequest acknowledges a pending request. With
// start_immediately it moves straight to in_progress.
func acceptGuestRequest(c *gin.Context) {
	user := currentUser(c)
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	var body struct {
		Notes            string `json:"notes"`
		StartImmediately bool   `json:"start_immediately"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	request, err := requestService().Acknowledge(requestID, user, body.Notes, body.StartImmediately)
	if err != nil {
		respondError(c, err)
		return
	}

	notifyTaskFeed("request_updated", request)

	c.JSON(http.StatusOK, gin.H{"request": requestView(request, user)})
}

// startGuestRequest moves an acknowledged request to in_progress
func startGuestRequest(c *gin.Context) {
	user := currentUser(c)
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	request, err := requestService().Start(requestID, user, body.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	notifyTaskFeed("request_updated", request)

	c.JSON(http.StatusOK, gin.H{"request": requestView(request, user)})
}

// completeGuestRequest finishes a request, stamping its completion time
// and recording the staff member's own rating of the outcome
func completeGuestRequest(c *gin.Context) {
	user := currentUser(c)
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	var body struct {
		Notes    string `json:"notes"`
		Rating   *int   `json:"rating"`
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": err.Error(),
		})
		return
	}

	request, err := requestService().Complete(requestID, user, services.CompletionInput{
		Notes:    body.Notes,
		Rating:   body.Rating,
		Feedback: body.Feedback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	notifyTaskFeed("request_completed", request)

	c.JSON(http.StatusOK, gin.H{"request": requestView(request, user)})
}

// cancelGuestRequest aborts a request. Guests may cancel their own;
// staff cancel anything non-terminal at their property.
func cancelGuestRequest(c *gin.Context) {
	user := currentUser(c)
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":    services.KindValidation,
			"message": "reason is required",
		})
		return
	}

	svc := requestService()

	if !user.Can(models.CapWorkRequest) {
		existing, err := svc.Get(requestID)
		if err != nil {
			respondError(c, err)
			return
		}
		if existing.GuestID == nil || *existing.GuestID != user.ID {
			c.JSON(http.StatusNotFound, gin.H{
				"kind":    services.KindNotFound,
				"message": (&services.NotFoundError{RequestID: requestID}).Error(),
			})
			return
		}
	}

	request, err := svc.Cancel(requestID, user, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	notifyTaskFeed("request_cancelled", request)

	c.JSON(http.StatusOK, gin.H{"request": requestView(request, user)})
}
