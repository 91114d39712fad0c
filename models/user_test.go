package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaffProfileCanActOn(t *testing.T) {
	active := StaffProfile{HotelID: 2, IsActive: true}
	assert.True(t, active.CanActOn(2))
	assert.False(t, active.CanActOn(3), "staff may only act on their own hotel's requests")

	inactive := StaffProfile{HotelID: 2, IsActive: false}
	assert.False(t, inactive.CanActOn(2), "inactive staff may not act at all")
}
