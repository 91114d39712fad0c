package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsValid(t *testing.T) {
	for _, role := range GetAllRoles() {
		assert.True(t, role.IsValid(), string(role))
	}
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestCapabilityMatrix(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleGuest, CapCreateRequest, true},
		{RoleGuest, CapWorkRequest, false},
		{RoleGuest, CapViewCharges, false},
		{RoleGuest, CapDeleteRequest, false},

		{RoleStaff, CapCreateRequest, true},
		{RoleStaff, CapWorkRequest, true},
		{RoleStaff, CapViewStats, true},
		{RoleStaff, CapAssignRequest, false},
		{RoleStaff, CapEditRequest, false},
		{RoleStaff, CapViewCharges, false},
		{RoleStaff, CapDeleteRequest, false},

		{RoleManager, CapWorkRequest, true},
		{RoleManager, CapAssignRequest, true},
		{RoleManager, CapEditRequest, true},
		{RoleManager, CapViewCharges, true},
		{RoleManager, CapManageStaff, true},
		{RoleManager, CapDeleteRequest, false},

		{RoleAdmin, CapDeleteRequest, true},
		{RoleAdmin, CapViewCharges, true},
		{RoleAdmin, CapManageStaff, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HasCapability(tc.role, tc.cap), "%s / %s", tc.role, tc.cap)
	}
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	for _, cap := range []Capability{CapCreateRequest, CapWorkRequest, CapDeleteRequest} {
		assert.False(t, HasCapability(Role("intern"), cap))
	}
}

func TestUserCan(t *testing.T) {
	manager := User{Role: RoleManager}
	assert.True(t, manager.Can(CapViewCharges))
	assert.False(t, manager.Can(CapDeleteRequest))

	guest := User{Role: RoleGuest}
	assert.True(t, guest.Can(CapCreateRequest))
	assert.False(t, guest.Can(CapViewStats))
}
