package models

import (
	"time"

	"gorm.io/gorm"
)

// Hotel is the scope every booking and guest request belongs to. A
// homestay is modeled the same way, just with fewer rooms.
type Hotel struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"type:varchar(200);not null"`
	City     string `json:"city" gorm:"type:varchar(100);not null"`
	Address  string `json:"address" gorm:"type:text"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Hotel model
func (Hotel) TableName() string {
	return "hotels"
}
