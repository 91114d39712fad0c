package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay-service-server/models"
	"homestay-service-server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", &services.ValidationError{Field: "description", Reason: "required"}, http.StatusBadRequest, services.KindValidation},
		{"not found", &services.NotFoundError{RequestID: 9}, http.StatusNotFound, services.KindNotFound},
		{"invalid transition", &services.InvalidTransitionError{Current: models.RequestStatusCompleted, Target: models.RequestStatusInProgress}, http.StatusConflict, services.KindInvalidTransition},
		{"invalid assignment", &services.InvalidAssignmentError{StaffID: 3, Reason: "inactive"}, http.StatusBadRequest, services.KindInvalidAssignment},
		{"persistence", &services.PersistenceError{Op: "save", Err: assert.AnError}, http.StatusInternalServerError, services.KindPersistence},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tc.err)

			assert.Equal(t, tc.status, recorder.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tc.kind, body["kind"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestRespondErrorHidesStorageDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	respondError(c, &services.PersistenceError{Op: "save transition", Err: assert.AnError})

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "internal storage error", body["message"])
	assert.NotContains(t, body["message"], assert.AnError.Error())
}

func TestRequestViewStripsChargesForStaff(t *testing.T) {
	charges := 45.50
	request := &models.GuestServiceRequest{
		ID:                1,
		Status:            models.RequestStatusCompleted,
		AdditionalCharges: &charges,
	}

	staffView := requestView(request, models.User{Role: models.RoleStaff})
	assert.Nil(t, staffView.AdditionalCharges)

	guestView := requestView(request, models.User{Role: models.RoleGuest})
	assert.Nil(t, guestView.AdditionalCharges)

	managerView := requestView(request, models.User{Role: models.RoleManager})
	require.NotNil(t, managerView.AdditionalCharges)
	assert.Equal(t, charges, *managerView.AdditionalCharges)

	// The source request is untouched
	require.NotNil(t, request.AdditionalCharges)
}
