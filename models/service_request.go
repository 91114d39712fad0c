package models

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus represents where a guest service request sits in its lifecycle
type RequestStatus string

const (
	RequestStatusPending      RequestStatus = "pending"
	RequestStatusAcknowledged RequestStatus = "acknowledged"
	RequestStatusInProgress   RequestStatus = "in_progress"
	RequestStatusCompleted    RequestStatus = "completed"
	RequestStatusCancelled    RequestStatus = "cancelled"
)

// RequestType classifies what the guest is asking for
type RequestType string

const (
	RequestTypeRoomService    RequestType = "room_service"
	RequestTypeHousekeeping   RequestType = "housekeeping"
	RequestTypeMaintenance    RequestType = "maintenance"
	RequestTypeAmenity        RequestType = "amenity"
	RequestTypeWakeUpCall     RequestType = "wake_up_call"
	RequestTypeTransportation RequestType = "transportation"
	RequestTypeConcierge      RequestType = "concierge"
	RequestTypeOther          RequestType = "other"
)

// RequestPriority is set at creation and may be raised by staff or the
// escalation job
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityNormal RequestPriority = "normal"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// statusTransitions describes the step-by-step lifecycle: pending ->
// acknowledged -> in_progress -> completed, with cancellation allowed
// from every non-terminal state. complete is also reachable from
// acknowledged so a quick task does not need a start call first. Each
// lifecycle operation guards its own entry states; the accept-and-start
// shortcut collapses pending -> acknowledged -> in_progress into a
// single call, so it is not a row in this table.
var statusTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:      {RequestStatusAcknowledged, RequestStatusCancelled},
	RequestStatusAcknowledged: {RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusInProgress:   {RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusCompleted:    {},
	RequestStatusCancelled:    {},
}

// CanTransitionTo reports whether target is a valid next status
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions
func (s RequestStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// IsValid checks if the status is part of the lifecycle
func (s RequestStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// GetAllRequestStatuses returns every lifecycle status
func GetAllRequestStatuses() []RequestStatus {
	return []RequestStatus{
		RequestStatusPending,
		RequestStatusAcknowledged,
		RequestStatusInProgress,
		RequestStatusCompleted,
		RequestStatusCancelled,
	}
}

// IsValid checks if the request type is a known classification
func (t RequestType) IsValid() bool {
	switch t {
	case RequestTypeRoomService, RequestTypeHousekeeping, RequestTypeMaintenance,
		RequestTypeAmenity, RequestTypeWakeUpCall, RequestTypeTransportation,
		RequestTypeConcierge, RequestTypeOther:
		return true
	default:
		return false
	}
}

// IsValid checks if the priority is a known level
func (p RequestPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// GuestServiceRequest is a guest's ask for staff action, tracked through
// the status lifecycle. Status and CompletedTime are only ever mutated by
// the lifecycle service; the administrative update path cannot touch them.
type GuestServiceRequest struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	BookingID uint     `json:"booking_id" gorm:"not null;index"`
	Booking   Booking  `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	GuestID   *uint    `json:"guest_id"`
	Guest     *User    `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	HotelID   uint     `json:"hotel_id" gorm:"not null;index"` // denormalized from booking, the staff scope

	RequestType RequestType     `json:"request_type" gorm:"type:varchar(30);not null"`
	Priority    RequestPriority `json:"priority" gorm:"type:varchar(20);not null;default:'normal'"`
	Status      RequestStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`

	Description string `json:"description" gorm:"type:text;not null"`
	Notes       string `json:"notes" gorm:"type:text"`       // guest-supplied
	StaffNotes  string `json:"staff_notes" gorm:"type:text"` // appended by lifecycle actions

	AssignedToID *uint         `json:"assigned_to_id" gorm:"index"`
	AssignedTo   *StaffProfile `json:"assigned_to,omitempty" gorm:"foreignKey:AssignedToID"`

	ScheduledTime *time.Time `json:"scheduled_time"`
	RequestedTime time.Time  `json:"requested_time" gorm:"not null"` // set once at creation
	CompletedTime *time.Time `json:"completed_time"`                 // non-null iff status == completed

	// Visible only to roles with the view-charges capability; handlers
	// strip it for everyone else.
	AdditionalCharges *float64 `json:"additional_charges,omitempty" gorm:"type:decimal(10,2)"`

	// Reported by staff on completion: their own assessment of the
	// outcome, not the guest's satisfaction.
	Rating   *int   `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Feedback string `json:"feedback" gorm:"type:text"`

	Photos []RequestPhoto `json:"photos,omitempty" gorm:"foreignKey:RequestID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the GuestServiceRequest model
func (GuestServiceRequest) TableName() string {
	return "guest_service_requests"
}

// RequestPhoto is an image a guest or staff member attached to a request
type RequestPhoto struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RequestID    uint      `json:"request_id" gorm:"not null;index"`
	URL          string    `json:"url" gorm:"type:varchar(500);not null"`
	UploadedByID uint      `json:"uploaded_by_id" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the RequestPhoto model
func (RequestPhoto) TableName() string {
	return "request_photos"
}

// GuestServiceRequestCreate is the request structure for creating a
// guest service request
type GuestServiceRequestCreate struct {
	BookingID     uint            `json:"booking_id" binding:"required"`
	RequestType   RequestType     `json:"request_type" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Priority      RequestPriority `json:"priority"`
	Notes         string          `json:"notes"`
	ScheduledTime *time.Time      `json:"scheduled_time"`
}

// GuestServiceRequestUpdate is the administrative patch structure. It
// deliberately has no status or completed_time field; those move only
// through lifecycle transitions.
type GuestServiceRequestUpdate struct {
	RequestType       *RequestType     `json:"request_type"`
	Priority          *RequestPriority `json:"priority"`
	Description       *string          `json:"description"`
	Notes             *string          `json:"notes"`
	StaffNotes        *string          `json:"staff_notes"`
	ScheduledTime     *time.Time       `json:"scheduled_time"`
	AdditionalCharges *float64         `json:"additional_charges"`
}
