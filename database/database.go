package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homestay-service-server/models"
)

// DB is the global database instance
var DB *gorm.DB

// Initialize sets up the database connection and runs migrations
func Initialize() error {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=homestay_service port=5432 sslmode=disable"
		log.Println("⚠️ DB_URL not set, using local default")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("✅ Database connection established")

	if err := migrate(); err != nil {
		return err
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// migrate runs GORM auto-migrations plus manual fixups that AutoMigrate
// cannot express
func migrate() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.StaffProfile{},
		&models.Booking{},
		&models.GuestServiceRequest{},
		&models.RequestPhoto{},
		&models.RequestStatusEvent{},
		&models.RefreshToken{},
	); err != nil {
		return err
	}

	backfillRequestHotelIDs()
	return nil
}

// backfillRequestHotelIDs copies hotel_id onto requests created before
// the column was denormalized from bookings. Idempotent; only touches
// rows still at zero.
func backfillRequestHotelIDs() {
	result := DB.Exec(`
		UPDATE guest_service_requests
		SET hotel_id = bookings.hotel_id
		FROM bookings
		WHERE guest_service_requests.booking_id = bookings.id
		  AND guest_service_requests.hotel_id = 0
	`)
	if result.Error != nil {
		log.Printf("⚠️ Failed to backfill request hotel IDs: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("✅ Backfilled hotel_id on %d service requests", result.RowsAffected)
	}
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
