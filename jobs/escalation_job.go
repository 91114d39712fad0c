package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"homestay-service-server/models"
	"homestay-service-server/services"
)

// EscalationJob raises the priority of overdue scheduled requests so
// they surface at the top of staff task lists. It doubles as the
// housekeeping loop that purges expired refresh tokens.
type EscalationJob struct {
	db       *gorm.DB
	interval time.Duration
	stopChan chan struct{}
}

// NewEscalationJob creates a new escalation job
func NewEscalationJob(db *gorm.DB) *EscalationJob {
	return &EscalationJob{
		db:       db,
		interval: 30 * time.Second,
		stopChan: make(chan struct{}),
	}
}

// Start begins the background escalation loop
func (j *EscalationJob) Start() {
	log.Println("🚀 Starting request escalation job...")

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		cleanup := time.NewTicker(time.Hour)
		defer cleanup.Stop()

		jwtService := services.NewJWTService()

		// Run once on startup to catch requests that went overdue while down
		j.escalateOverdueRequests()

		for {
			select {
			case <-ticker.C:
				j.escalateOverdueRequests()
			case <-cleanup.C:
				if err := jwtService.CleanupExpiredTokens(); err != nil {
					log.Printf("❌ Failed to clean up expired refresh tokens: %v", err)
				}
			case <-j.stopChan:
				log.Println("🛑 Request escalation job stopped")
				return
			}
		}
	}()
}

// Stop stops the escalation job
func (j *EscalationJob) Stop() {
	close(j.stopChan)
}

// escalateOverdueRequests bumps still-pending requests whose scheduled
// time has passed to urgent priority
func (j *EscalationJob) escalateOverdueRequests() {
	now := time.Now()

	result := j.db.Model(&models.GuestServiceRequest{}).
		Where("status = ?", models.RequestStatusPending).
		Where("scheduled_time IS NOT NULL AND scheduled_time <= ?", now).
		Where("priority <> ?", models.PriorityUrgent).
		Update("priority", models.PriorityUrgent)

	if result.Error != nil {
		log.Printf("❌ Failed to escalate overdue requests: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("⚠️ Escalated %d overdue service requests to urgent", result.RowsAffected)
	}
}
