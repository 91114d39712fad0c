package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	PhoneNumber  string    `json:"phone_number" gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'guest';check:role IN ('guest','staff','manager','admin')"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:GuestID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleGuest
	}
	return nil
}

// IsStaffRole reports whether the user works for a property
func (u *User) IsStaffRole() bool {
	return u.Role == RoleStaff || u.Role == RoleManager
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Can reports whether the user's role carries the capability
func (u *User) Can(cap Capability) bool {
	return HasCapability(u.Role, cap)
}

// StaffProfile is the staff-directory record for a user working at one
// hotel. assigned_to on a request points here, never at a bare user.
type StaffProfile struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	HotelID  uint   `json:"hotel_id" gorm:"not null;index"`
	Position string `json:"position" gorm:"type:varchar(100)"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Hotel Hotel `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
}

// TableName specifies the table name for the StaffProfile model
func (StaffProfile) TableName() string {
	return "staff_profiles"
}

// CanActOn reports whether this staff member may work requests scoped
// to the given hotel.
func (sp *StaffProfile) CanActOn(hotelID uint) bool {
	return sp.IsActive && sp.HotelID == hotelID
}
