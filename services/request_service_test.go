package services

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homestay-service-server/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCreateValidation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewRequestService(db)
	actor := models.User{ID: 1, Role: models.RoleGuest}

	cases := []struct {
		name  string
		input models.GuestServiceRequestCreate
		field string
	}{
		{
			name:  "missing booking",
			input: models.GuestServiceRequestCreate{RequestType: models.RequestTypeHousekeeping, Description: "towels"},
			field: "booking_id",
		},
		{
			name:  "missing type",
			input: models.GuestServiceRequestCreate{BookingID: 1, Description: "towels"},
			field: "request_type",
		},
		{
			name:  "unknown type",
			input: models.GuestServiceRequestCreate{BookingID: 1, RequestType: "laundry", Description: "towels"},
			field: "request_type",
		},
		{
			name:  "blank description",
			input: models.GuestServiceRequestCreate{BookingID: 1, RequestType: models.RequestTypeHousekeeping, Description: "   "},
			field: "description",
		},
		{
			name: "unknown priority",
			input: models.GuestServiceRequestCreate{
				BookingID: 1, RequestType: models.RequestTypeHousekeeping,
				Description: "towels", Priority: "critical",
			},
			field: "priority",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.input, actor)
			require.Error(t, err)
			assert.Equal(t, KindValidation, ErrorKind(err))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestCreateRejectsUnknownBooking(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Create(models.GuestServiceRequestCreate{
		BookingID:   42,
		RequestType: models.RequestTypeMaintenance,
		Description: "leaking faucet",
	}, models.User{ID: 1})

	require.Error(t, err)
	assert.Equal(t, KindValidation, ErrorKind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Get(99)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, ErrorKind(err))

	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, uint(99), nfe.RequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// expectTransitionRows mocks one full successful transition: the locked
// read, the row update, the audit insert, the commit and the reload.
func expectTransitionRows(mock sqlmock.Sqlmock, id int64, lockStatus, finalStatus string) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(id, lockStatus))
	mock.ExpectExec(`UPDATE "guest_service_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "request_status_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(id, finalStatus))
	mock.ExpectQuery(`SELECT (.+) FROM "request_photos"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func TestCreateDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "guest_id"}).AddRow(3, 2, 9))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "guest_service_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(`INSERT INTO "request_status_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	request, err := svc.Create(models.GuestServiceRequestCreate{
		BookingID:   3,
		RequestType: models.RequestTypeRoomService,
		Description: "two extra pillows",
	}, models.User{ID: 9, Role: models.RoleGuest})
	require.NoError(t, err)

	assert.Equal(t, uint(11), request.ID)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, models.PriorityNormal, request.Priority)
	assert.Equal(t, uint(2), request.HotelID)
	require.NotNil(t, request.GuestID)
	assert.Equal(t, uint(9), *request.GuestID)
	assert.Nil(t, request.CompletedTime)
	assert.False(t, request.RequestedTime.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcurrentAcceptsResolveToOneWinner(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	amina := models.User{ID: 2, FullName: "Amina", Role: models.RoleStaff}
	omar := models.User{ID: 3, FullName: "Omar", Role: models.RoleStaff}

	// The first accept wins the row lock and advances the request
	expectTransitionRows(mock, 7, "pending", "acknowledged")
	// The second locks the row only after the winner committed, so it
	// reads the already-advanced status
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(7, "acknowledged"))
	mock.ExpectRollback()

	winner, err := svc.Acknowledge(7, amina, "", false)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAcknowledged, winner.Status)

	_, err = svc.Acknowledge(7, omar, "", false)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, ErrorKind(err))

	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.RequestStatusAcknowledged, terr.Current)
	assert.Equal(t, models.RequestStatusAcknowledged, terr.Target)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptStartImmediately(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	expectTransitionRows(mock, 7, "pending", "in_progress")

	request, err := svc.Acknowledge(7, models.User{ID: 2, FullName: "Amina", Role: models.RoleStaff}, "on my way", true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusInProgress, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartRejectsPendingRequest(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(7, "pending"))
	mock.ExpectRollback()

	_, err := svc.Start(7, models.User{ID: 2, Role: models.RoleStaff}, "")
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, ErrorKind(err))

	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.RequestStatusPending, terr.Current)
	assert.Equal(t, models.RequestStatusInProgress, terr.Target)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRejectsTerminalRequest(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(7, "cancelled"))
	mock.ExpectRollback()

	_, err := svc.Complete(7, models.User{ID: 2, Role: models.RoleStaff}, CompletionInput{})
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, ErrorKind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteValidatesRating(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewRequestService(db)

	for _, rating := range []int{0, 6, -1} {
		r := rating
		_, err := svc.Complete(1, models.User{ID: 2}, CompletionInput{Rating: &r})
		require.Error(t, err)
		assert.Equal(t, KindValidation, ErrorKind(err))
	}
}

func TestCancelRequiresReason(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewRequestService(db)

	_, err := svc.Cancel(1, models.User{ID: 2}, "  ")
	require.Error(t, err)
	assert.Equal(t, KindValidation, ErrorKind(err))
}

func TestAssignRejectsStaffOutsideHotel(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id"}).AddRow(7, 2))
	mock.ExpectQuery(`SELECT (.+) FROM "staff_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "is_active"}).AddRow(5, 3, true))

	_, err := svc.Assign(7, 5, models.User{ID: 4, Role: models.RoleManager})
	require.Error(t, err)
	assert.Equal(t, KindInvalidAssignment, ErrorKind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRejectsInactiveStaff(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id"}).AddRow(7, 2))
	mock.ExpectQuery(`SELECT (.+) FROM "staff_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "is_active"}).AddRow(5, 2, false))

	_, err := svc.Assign(7, 5, models.User{ID: 4, Role: models.RoleManager})
	require.Error(t, err)
	assert.Equal(t, KindInvalidAssignment, ErrorKind(err))

	var aerr *InvalidAssignmentError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Reason, "inactive")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStrictAssignmentBlocksOtherStaff(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db).WithStrictAssignment(true)

	assignee := uint(5)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "assigned_to_id"}).AddRow(7, "acknowledged", assignee))
	// Actor resolves to a different staff profile
	mock.ExpectQuery(`SELECT (.+) FROM "staff_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(9, 2))
	mock.ExpectRollback()

	_, err := svc.Start(7, models.User{ID: 2, Role: models.RoleStaff}, "")
	require.Error(t, err)
	assert.Equal(t, KindInvalidAssignment, ErrorKind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStrictAssignmentExemptsAssignCapability(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db).WithStrictAssignment(true)

	// No staff_profiles lookup: managers hold the assign capability and
	// may drive any request regardless of assignee
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "assigned_to_id"}).AddRow(7, "acknowledged", 5))
	mock.ExpectExec(`UPDATE "guest_service_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "request_status_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "guest_service_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(7, "in_progress"))
	mock.ExpectQuery(`SELECT (.+) FROM "request_photos"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	request, err := svc.Start(7, models.User{ID: 4, FullName: "Mara", Role: models.RoleManager}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusInProgress, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendStaffNote(t *testing.T) {
	first := AppendStaffNote("", "Amina", "acknowledged, heading up")
	assert.Contains(t, first, "Amina: acknowledged, heading up")
	assert.False(t, strings.Contains(first, "\n"))

	second := AppendStaffNote(first, "Omar", "done")
	lines := strings.Split(second, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, first, lines[0])
	assert.Contains(t, lines[1], "Omar: done")
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, KindValidation, ErrorKind(&ValidationError{Field: "x"}))
	assert.Equal(t, KindNotFound, ErrorKind(&NotFoundError{RequestID: 1}))
	assert.Equal(t, KindInvalidTransition, ErrorKind(&InvalidTransitionError{}))
	assert.Equal(t, KindInvalidAssignment, ErrorKind(&InvalidAssignmentError{}))
	assert.Equal(t, KindPersistence, ErrorKind(&PersistenceError{Op: "save"}))
	assert.Equal(t, KindPersistence, ErrorKind(assert.AnError))
}
