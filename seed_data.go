package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// seedDefaultData inserts a default hotel and admin account so a fresh
// deployment is usable immediately. Runs only with SEED_DEFAULT_DATA=true
// and never overwrites existing rows.
func seedDefaultData() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=homestay_service port=5432 sslmode=disable"
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Printf("❌ Seed: failed to connect to database: %v", err)
		return
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Printf("❌ Seed: failed to ping database: %v", err)
		return
	}

	// Default hotel
	var hotelID int64
	err = db.QueryRow(`SELECT id FROM hotels ORDER BY id LIMIT 1`).Scan(&hotelID)
	if err == sql.ErrNoRows {
		err = db.QueryRow(`
			INSERT INTO hotels (name, city, address, is_active, created_at, updated_at)
			VALUES ('Riverside Homestay', 'Nouakchott', 'Rue 42-091, Tevragh Zeina', true, NOW(), NOW())
			RETURNING id
		`).Scan(&hotelID)
		if err != nil {
			log.Printf("❌ Seed: failed to create default hotel: %v", err)
			return
		}
		log.Printf("✅ Seed: created default hotel %d", hotelID)
	} else if err != nil {
		log.Printf("❌ Seed: failed to query hotels: %v", err)
		return
	}

	// Default admin
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "ChangeMe123"
		log.Println("⚠️ Seed: SEED_ADMIN_PASSWORD not set, using default - change it immediately")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 12)
	if err != nil {
		log.Printf("❌ Seed: failed to hash admin password: %v", err)
		return
	}

	result, err := db.Exec(`
		INSERT INTO users (full_name, phone_number, password_hash, role, is_active, created_at, updated_at)
		VALUES ('Administrator', '+22200000000', $1, 'admin', true, NOW(), NOW())
		ON CONFLICT (phone_number) DO NOTHING
	`, string(hash))
	if err != nil {
		log.Printf("❌ Seed: failed to create admin user: %v", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		log.Println("✅ Seed: created default admin account")
	}

	// Default staff member attached to the default hotel
	var staffUserID int64
	err = db.QueryRow(`
		INSERT INTO users (full_name, phone_number, password_hash, role, is_active, created_at, updated_at)
		VALUES ('Front Desk', '+22200000001', $1, 'staff', true, NOW(), NOW())
		ON CONFLICT (phone_number) DO NOTHING
		RETURNING id
	`, string(hash)).Scan(&staffUserID)
	if err == sql.ErrNoRows {
		return // staff user already seeded
	}
	if err != nil {
		log.Printf("❌ Seed: failed to create staff user: %v", err)
		return
	}

	_, err = db.Exec(`
		INSERT INTO staff_profiles (user_id, hotel_id, position, is_active, created_at, updated_at)
		VALUES ($1, $2, 'Front Desk', true, NOW(), NOW())
	`, staffUserID, hotelID)
	if err != nil {
		log.Printf("❌ Seed: failed to create staff profile: %v", err)
		return
	}

	log.Println("✅ Seed: created default staff account and roster entry")
}
