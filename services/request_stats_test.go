package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay-service-server/models"
)

func TestCountsByStatusZeroFills(t *testing.T) {
	db, mock := newMockDB(t)
	stats := NewStatsService(db)

	mock.ExpectQuery(`SELECT status, count(.+) FROM "guest_service_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("completed", 12))

	counts, err := stats.CountsByStatus(0)
	require.NoError(t, err)

	assert.Equal(t, int64(3), counts.ByStatus[models.RequestStatusPending])
	assert.Equal(t, int64(12), counts.ByStatus[models.RequestStatusCompleted])
	assert.Equal(t, int64(0), counts.ByStatus[models.RequestStatusAcknowledged])
	assert.Equal(t, int64(0), counts.ByStatus[models.RequestStatusInProgress])
	assert.Equal(t, int64(0), counts.ByStatus[models.RequestStatusCancelled])
	assert.Equal(t, int64(15), counts.Total)

	// Every lifecycle status is present even with no rows at all
	assert.Len(t, counts.ByStatus, len(models.GetAllRequestStatuses()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountsByStatusScopesToHotel(t *testing.T) {
	db, mock := newMockDB(t)
	stats := NewStatsService(db)

	mock.ExpectQuery(`SELECT status, count(.+) FROM "guest_service_requests" WHERE hotel_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))

	counts, err := stats.CountsByStatus(4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamActivityGroupsByStaff(t *testing.T) {
	db, mock := newMockDB(t)
	stats := NewStatsService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests" JOIN staff_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "staff_name", "status", "count"}).
			AddRow(1, "Amina", "completed", 8).
			AddRow(1, "Amina", "in_progress", 2).
			AddRow(2, "Omar", "completed", 5))

	activity, err := stats.TeamActivity(0, false)
	require.NoError(t, err)
	require.Len(t, activity, 2)

	assert.Equal(t, uint(1), activity[0].StaffID)
	assert.Equal(t, "Amina", activity[0].StaffName)
	assert.Equal(t, int64(8), activity[0].TasksCompleted)
	assert.Equal(t, int64(2), activity[0].TasksInProgress)

	assert.Equal(t, uint(2), activity[1].StaffID)
	assert.Equal(t, int64(5), activity[1].TasksCompleted)
	assert.Equal(t, int64(0), activity[1].TasksInProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamActivityIncludesIdleRoster(t *testing.T) {
	db, mock := newMockDB(t)
	stats := NewStatsService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests" JOIN staff_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "staff_name", "status", "count"}).
			AddRow(1, "Amina", "completed", 8))
	mock.ExpectQuery(`SELECT (.+) FROM "staff_profiles" JOIN users`).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "staff_name"}).
			AddRow(1, "Amina").
			AddRow(3, "Fatou"))

	activity, err := stats.TeamActivity(2, true)
	require.NoError(t, err)
	require.Len(t, activity, 2)

	byID := map[uint]StaffActivity{}
	for _, entry := range activity {
		byID[entry.StaffID] = entry
	}

	assert.Equal(t, int64(8), byID[1].TasksCompleted)
	assert.Equal(t, "Fatou", byID[3].StaffName)
	assert.Equal(t, int64(0), byID[3].TasksCompleted)
	assert.Equal(t, int64(0), byID[3].TasksInProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}
