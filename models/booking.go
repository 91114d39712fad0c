package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusReserved   BookingStatus = "reserved"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Booking resolves a stay to its hotel scope and guest. The request
// lifecycle only reads it; booking management lives elsewhere.
type Booking struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	HotelID    uint          `json:"hotel_id" gorm:"not null;index"`
	GuestID    uint          `json:"guest_id" gorm:"not null;index"`
	RoomNumber string        `json:"room_number" gorm:"size:20;not null"`
	Status     BookingStatus `json:"status" gorm:"type:varchar(20);default:'reserved';check:status IN ('reserved','checked_in','checked_out','cancelled')"`
	CheckIn    time.Time     `json:"check_in" gorm:"not null"`
	CheckOut   time.Time     `json:"check_out" gorm:"not null"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Hotel Hotel `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
	Guest User  `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
