package models

import (
	"time"
)

// RequestStatusEvent is one row of the status audit trail. Every
// lifecycle transition appends one; nothing updates or deletes them.
type RequestStatusEvent struct {
	ID        uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID uint          `json:"request_id" gorm:"not null;index"`
	Status    RequestStatus `json:"status" gorm:"type:varchar(20);not null"`
	ActorID   uint          `json:"actor_id" gorm:"not null"`
	Note      string        `json:"note" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Request GuestServiceRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Actor   User                `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
}

// TableName sets the table name for the RequestStatusEvent model
func (RequestStatusEvent) TableName() string {
	return "request_status_events"
}
