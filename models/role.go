package models

// Role is the closed set of account roles. There is no free-form role
// string anywhere; authorization derives from the capability sets below.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Capability is a single permission a role grants
type Capability string

const (
	CapCreateRequest Capability = "request:create"
	CapWorkRequest   Capability = "request:work" // acknowledge, start, complete, cancel
	CapAssignRequest Capability = "request:assign"
	CapEditRequest   Capability = "request:edit"
	CapDeleteRequest Capability = "request:delete"
	CapViewStats     Capability = "stats:view"
	CapViewCharges   Capability = "charges:view"
	CapManageStaff   Capability = "staff:manage"
)

// roleCapabilities maps each role to what it may do. Managers carry
// everything staff do plus administrative edits; only admins delete.
var roleCapabilities = map[Role][]Capability{
	RoleGuest: {
		CapCreateRequest,
	},
	RoleStaff: {
		CapCreateRequest,
		CapWorkRequest,
		CapViewStats,
	},
	RoleManager: {
		CapCreateRequest,
		CapWorkRequest,
		CapAssignRequest,
		CapEditRequest,
		CapViewStats,
		CapViewCharges,
		CapManageStaff,
	},
	RoleAdmin: {
		CapCreateRequest,
		CapWorkRequest,
		CapAssignRequest,
		CapEditRequest,
		CapDeleteRequest,
		CapViewStats,
		CapViewCharges,
		CapManageStaff,
	},
}

// HasCapability reports whether the role grants the capability
func HasCapability(role Role, cap Capability) bool {
	for _, granted := range roleCapabilities[role] {
		if granted == cap {
			return true
		}
	}
	return false
}

// IsValid checks if the role is part of the closed set
func (r Role) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// GetAllRoles returns every valid role
func GetAllRoles() []Role {
	return []Role{RoleGuest, RoleStaff, RoleManager, RoleAdmin}
}
