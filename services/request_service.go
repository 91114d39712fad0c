package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homestay-service-server/models"
)

// RequestService owns all reads and writes of guest service requests.
// Status and completed_time are mutated exclusively by the transition
// methods below, inside a row-locked transaction, so two concurrent
// staff actions on the same request resolve to one winner.
type RequestService struct {
	db               *gorm.DB
	strictAssignment bool
}

// NewRequestService creates a request service on top of the given DB handle
func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

// WithStrictAssignment makes lifecycle transitions reject actors other
// than the assignee when a request is assigned. Actors holding the
// assign capability (managers, admins) are exempt so they can always
// intervene. Off by default; assignment is advisory metadata.
func (s *RequestService) WithStrictAssignment(strict bool) *RequestService {
	s.strictAssignment = strict
	return s
}

// RequestFilters narrows List results. Zero values mean "no filter".
type RequestFilters struct {
	HotelID      uint
	GuestID      uint
	Status       models.RequestStatus
	RequestType  models.RequestType
	Priority     models.RequestPriority
	AssignedToID uint
	Unassigned   bool
}

// CompletionInput carries the completion payload: a mandatory-free note
// plus the staff member's own rating of the outcome.
type CompletionInput struct {
	Notes    string
	Rating   *int
	Feedback string
}

// Create persists a new request in pending status. booking_id,
// request_type and description are required; priority defaults to
// normal and requested_time to now.
func (s *RequestService) Create(input models.GuestServiceRequestCreate, actor models.User) (*models.GuestServiceRequest, error) {
	if input.BookingID == 0 {
		return nil, &ValidationError{Field: "booking_id", Reason: "required"}
	}
	if input.RequestType == "" {
		return nil, &ValidationError{Field: "request_type", Reason: "required"}
	}
	if !input.RequestType.IsValid() {
		return nil, &ValidationError{Field: "request_type", Reason: fmt.Sprintf("unknown type %q", input.RequestType)}
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, &ValidationError{Field: "description", Reason: "required"}
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !priority.IsValid() {
		return nil, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", priority)}
	}

	// Resolve the booking to pin the hotel scope
	var booking models.Booking
	if err := s.db.First(&booking, input.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "booking_id", Reason: fmt.Sprintf("booking %d does not exist", input.BookingID)}
		}
		return nil, &PersistenceError{Op: "resolve booking", Err: err}
	}

	request := models.GuestServiceRequest{
		BookingID:     booking.ID,
		GuestID:       &booking.GuestID,
		HotelID:       booking.HotelID,
		RequestType:   input.RequestType,
		Priority:      priority,
		Status:        models.RequestStatusPending,
		Description:   input.Description,
		Notes:         input.Notes,
		ScheduledTime: input.ScheduledTime,
		RequestedTime: time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return &PersistenceError{Op: "create request", Err: err}
		}
		event := models.RequestStatusEvent{
			RequestID: request.ID,
			Status:    models.RequestStatusPending,
			ActorID:   actor.ID,
			Note:      "request created",
		}
		if err := tx.Create(&event).Error; err != nil {
			return &PersistenceError{Op: "record status event", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Request %d created for booking %d (hotel %d, type %s)",
		request.ID, request.BookingID, request.HotelID, request.RequestType)
	return &request, nil
}

// Get loads one request with its associations
func (s *RequestService) Get(requestID uint) (*models.GuestServiceRequest, error) {
	var request models.GuestServiceRequest
	err := s.db.
		Preload("Booking").
		Preload("Guest").
		Preload("AssignedTo.User").
		Preload("Photos").
		First(&request, requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{RequestID: requestID}
		}
		return nil, &PersistenceError{Op: "load request", Err: err}
	}
	return &request, nil
}

// List returns requests matching the filters, newest first
func (s *RequestService) List(filters RequestFilters) ([]models.GuestServiceRequest, error) {
	query := s.db.Model(&models.GuestServiceRequest{})

	if filters.HotelID != 0 {
		query = query.Where("hotel_id = ?", filters.HotelID)
	}
	if filters.GuestID != 0 {
		query = query.Where("guest_id = ?", filters.GuestID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.RequestType != "" {
		query = query.Where("request_type = ?", filters.RequestType)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.AssignedToID != 0 {
		query = query.Where("assigned_to_id = ?", filters.AssignedToID)
	} else if filters.Unassigned {
		query = query.Where("assigned_to_id IS NULL")
	}

	var requests []models.GuestServiceRequest
	err := query.
		Preload("Booking").
		Preload("AssignedTo.User").
		Order("requested_time DESC").
		Find(&requests).Error
	if err != nil {
		return nil, &PersistenceError{Op: "list requests", Err: err}
	}
	return requests, nil
}

// Update applies an administrative field patch. The patch struct carries
// no status or completed_time, so this path can never bypass the
// lifecycle.
func (s *RequestService) Update(requestID uint, patch models.GuestServiceRequestUpdate) (*models.GuestServiceRequest, error) {
	if patch.RequestType != nil && !patch.RequestType.IsValid() {
		return nil, &ValidationError{Field: "request_type", Reason: fmt.Sprintf("unknown type %q", *patch.RequestType)}
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return nil, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", *patch.Priority)}
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
	}

	updates := map[string]interface{}{}
	if patch.RequestType != nil {
		updates["request_type"] = *patch.RequestType
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.StaffNotes != nil {
		updates["staff_notes"] = *patch.StaffNotes
	}
	if patch.ScheduledTime != nil {
		updates["scheduled_time"] = *patch.ScheduledTime
	}
	if patch.AdditionalCharges != nil {
		updates["additional_charges"] = *patch.AdditionalCharges
	}
	if len(updates) == 0 {
		return s.Get(requestID)
	}

	result := s.db.Model(&models.GuestServiceRequest{}).
		Where("id = ?", requestID).
		Updates(updates)
	if result.Error != nil {
		return nil, &PersistenceError{Op: "update request", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, &NotFoundError{RequestID: requestID}
	}
	return s.Get(requestID)
}

// Delete hard-removes a request. Administrative override only; the
// lifecycle never deletes.
func (s *RequestService) Delete(requestID uint) error {
	result := s.db.Unscoped().Delete(&models.GuestServiceRequest{}, requestID)
	if result.Error != nil {
		return &PersistenceError{Op: "delete request", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{RequestID: requestID}
	}
	log.Printf("🗑️ Request %d hard-deleted by administrative override", requestID)
	return nil
}

// Assign sets assigned_to after validating the staff member is active
// and belongs to the hotel owning the request's booking. Assignment
// never changes status.
func (s *RequestService) Assign(requestID uint, staffID uint, actor models.User) (*models.GuestServiceRequest, error) {
	var request models.GuestServiceRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{RequestID: requestID}
		}
		return nil, &PersistenceError{Op: "load request", Err: err}
	}

	var staff models.StaffProfile
	if err := s.db.First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &InvalidAssignmentError{StaffID: staffID, Reason: "no such staff profile"}
		}
		return nil, &PersistenceError{Op: "load staff profile", Err: err}
	}
	if !staff.CanActOn(request.HotelID) {
		if !staff.IsActive {
			return nil, &InvalidAssignmentError{StaffID: staffID, Reason: "staff profile is inactive"}
		}
		return nil, &InvalidAssignmentError{StaffID: staffID, Reason: fmt.Sprintf("staff belongs to hotel %d, request to hotel %d", staff.HotelID, request.HotelID)}
	}

	if err := s.db.Model(&request).Update("assigned_to_id", staff.ID).Error; err != nil {
		return nil, &PersistenceError{Op: "assign request", Err: err}
	}
	log.Printf("👤 Request %d assigned to staff %d by user %d", requestID, staffID, actor.ID)
	return s.Get(requestID)
}

// Acknowledge moves a pending request to acknowledged. With
// startImmediately it advances straight through to in_progress in the
// same transaction, replacing the old double-accept convention.
func (s *RequestService) Acknowledge(requestID uint, actor models.User, notes string, startImmediately bool) (*models.GuestServiceRequest, error) {
	target := models.RequestStatusAcknowledged
	if startImmediately {
		target = models.RequestStatusInProgress
	}
	return s.transition(requestID, actor, target, notes,
		[]models.RequestStatus{models.RequestStatusPending}, nil)
}

// Start moves an acknowledged request to in_progress. A pending request
// must be acknowledged first; the one-call shortcut lives on Acknowledge.
func (s *RequestService) Start(requestID uint, actor models.User, notes string) (*models.GuestServiceRequest, error) {
	return s.transition(requestID, actor, models.RequestStatusInProgress, notes,
		[]models.RequestStatus{models.RequestStatusAcknowledged}, nil)
}

// Complete finishes a request from acknowledged or in_progress, stamping
// completed_time exactly once and storing the staff rating/feedback if
// provided.
func (s *RequestService) Complete(requestID uint, actor models.User, input CompletionInput) (*models.GuestServiceRequest, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	return s.transition(requestID, actor, models.RequestStatusCompleted, input.Notes,
		[]models.RequestStatus{models.RequestStatusAcknowledged, models.RequestStatusInProgress},
		func(req *models.GuestServiceRequest) error {
			now := time.Now()
			req.CompletedTime = &now
			if input.Rating != nil {
				req.Rating = input.Rating
			}
			if input.Feedback != "" {
				req.Feedback = input.Feedback
			}
			return nil
		})
}

// Cancel aborts a request from any non-terminal state. A reason is
// required and lands in the staff notes.
func (s *RequestService) Cancel(requestID uint, actor models.User, reason string) (*models.GuestServiceRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, &ValidationError{Field: "reason", Reason: "required"}
	}
	return s.transition(requestID, actor, models.RequestStatusCancelled, reason,
		[]models.RequestStatus{models.RequestStatusPending, models.RequestStatusAcknowledged, models.RequestStatusInProgress}, nil)
}

// transition is the single guarded path for every status change. The
// row is locked for the duration of the transaction, so concurrent
// attempts serialize: the second reads the already-advanced status and
// fails the entry-state check.
func (s *RequestService) transition(requestID uint, actor models.User, target models.RequestStatus, notes string, allowedFrom []models.RequestStatus, mutate func(*models.GuestServiceRequest) error) (*models.GuestServiceRequest, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request models.GuestServiceRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{RequestID: requestID}
			}
			return &PersistenceError{Op: "lock request", Err: err}
		}

		if s.strictAssignment && request.AssignedToID != nil && !actor.Can(models.CapAssignRequest) {
			var staff models.StaffProfile
			err := tx.Where("user_id = ?", actor.ID).First(&staff).Error
			if err != nil || staff.ID != *request.AssignedToID {
				return &InvalidAssignmentError{StaffID: *request.AssignedToID, Reason: "request is assigned to another staff member"}
			}
		}

		allowed := false
		for _, from := range allowedFrom {
			if request.Status == from {
				allowed = true
				break
			}
		}
		if !allowed {
			return &InvalidTransitionError{Current: request.Status, Target: target}
		}
		if mutate != nil {
			if err := mutate(&request); err != nil {
				return err
			}
		}

		request.Status = target
		if notes != "" {
			request.StaffNotes = AppendStaffNote(request.StaffNotes, actor.FullName, notes)
		}

		if err := tx.Save(&request).Error; err != nil {
			return &PersistenceError{Op: "save transition", Err: err}
		}

		event := models.RequestStatusEvent{
			RequestID: request.ID,
			Status:    target,
			ActorID:   actor.ID,
			Note:      notes,
		}
		if err := tx.Create(&event).Error; err != nil {
			return &PersistenceError{Op: "record status event", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🔄 Request %d moved to %s by user %d", requestID, target, actor.ID)
	return s.Get(requestID)
}

// AppendStaffNote adds one timestamped, attributed line to the staff
// notes log. Existing content is never rewritten.
func AppendStaffNote(existing, actorName, note string) string {
	line := fmt.Sprintf("[%s] %s: %s", time.Now().Format("2006-01-02 15:04"), actorName, strings.TrimSpace(note))
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}
