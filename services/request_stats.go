package services

import (
	"gorm.io/gorm"

	"homestay-service-server/models"
)

// StatsService computes dashboard summaries on demand. Nothing here is
// persisted or cached; dashboards poll on a ~30s cycle, which this read
// path comfortably sustains.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a stats service on top of the given DB handle
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// StatusCounts maps each lifecycle status to its request count. Every
// status is present, zero-filled, and Total is their sum.
type StatusCounts struct {
	ByStatus map[models.RequestStatus]int64 `json:"by_status"`
	Total    int64                          `json:"total"`
}

// StaffActivity summarizes one staff member's open and finished tasks
type StaffActivity struct {
	StaffID         uint   `json:"staff_id"`
	StaffName       string `json:"staff_name"`
	TasksCompleted  int64  `json:"tasks_completed"`
	TasksInProgress int64  `json:"tasks_in_progress"`
}

type statusCountRow struct {
	Status models.RequestStatus
	Count  int64
}

// CountsByStatus returns per-status request counts for one hotel, or
// across all hotels when hotelID is zero.
func (s *StatsService) CountsByStatus(hotelID uint) (*StatusCounts, error) {
	query := s.db.Model(&models.GuestServiceRequest{}).
		Select("status, count(*) as count").
		Group("status")
	if hotelID != 0 {
		query = query.Where("hotel_id = ?", hotelID)
	}

	var rows []statusCountRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, &PersistenceError{Op: "count by status", Err: err}
	}

	counts := &StatusCounts{ByStatus: make(map[models.RequestStatus]int64)}
	for _, status := range models.GetAllRequestStatuses() {
		counts.ByStatus[status] = 0
	}
	for _, row := range rows {
		counts.ByStatus[row.Status] = row.Count
		counts.Total += row.Count
	}
	return counts, nil
}

type activityRow struct {
	StaffID   uint
	StaffName string
	Status    models.RequestStatus
	Count     int64
}

// TeamActivity groups completed and in-progress requests by assignee.
// Staff with no matching requests are omitted unless includeIdle joins
// the hotel's active roster with zeroed counters.
func (s *StatsService) TeamActivity(hotelID uint, includeIdle bool) ([]StaffActivity, error) {
	query := s.db.Model(&models.GuestServiceRequest{}).
		Select("guest_service_requests.assigned_to_id as staff_id, users.full_name as staff_name, guest_service_requests.status, count(*) as count").
		Joins("JOIN staff_profiles ON staff_profiles.id = guest_service_requests.assigned_to_id").
		Joins("JOIN users ON users.id = staff_profiles.user_id").
		Where("guest_service_requests.assigned_to_id IS NOT NULL").
		Where("guest_service_requests.status IN ?", []models.RequestStatus{models.RequestStatusCompleted, models.RequestStatusInProgress}).
		Group("guest_service_requests.assigned_to_id, users.full_name, guest_service_requests.status")
	if hotelID != 0 {
		query = query.Where("guest_service_requests.hotel_id = ?", hotelID)
	}

	var rows []activityRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, &PersistenceError{Op: "team activity", Err: err}
	}

	byStaff := make(map[uint]*StaffActivity)
	order := []uint{}
	for _, row := range rows {
		entry, ok := byStaff[row.StaffID]
		if !ok {
			entry = &StaffActivity{StaffID: row.StaffID, StaffName: row.StaffName}
			byStaff[row.StaffID] = entry
			order = append(order, row.StaffID)
		}
		switch row.Status {
		case models.RequestStatusCompleted:
			entry.TasksCompleted = row.Count
		case models.RequestStatusInProgress:
			entry.TasksInProgress = row.Count
		}
	}

	if includeIdle {
		rosterQuery := s.db.Model(&models.StaffProfile{}).
			Select("staff_profiles.id as staff_id, users.full_name as staff_name").
			Joins("JOIN users ON users.id = staff_profiles.user_id").
			Where("staff_profiles.is_active = ?", true)
		if hotelID != 0 {
			rosterQuery = rosterQuery.Where("staff_profiles.hotel_id = ?", hotelID)
		}
		var roster []activityRow
		if err := rosterQuery.Scan(&roster).Error; err != nil {
			return nil, &PersistenceError{Op: "staff roster", Err: err}
		}
		for _, member := range roster {
			if _, ok := byStaff[member.StaffID]; !ok {
				byStaff[member.StaffID] = &StaffActivity{StaffID: member.StaffID, StaffName: member.StaffName}
				order = append(order, member.StaffID)
			}
		}
	}

	activity := make([]StaffActivity, 0, len(order))
	for _, staffID := range order {
		activity = append(activity, *byStaff[staffID])
	}
	return activity, nil
}
