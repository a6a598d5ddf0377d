package entity

// Role is a principal's authorization role.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleDoctor     Role = "DOCTOR"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleDoctor:
		return true
	}
	return false
}

// Role groups used by route guards.
var (
	RolesAll           = []Role{RoleSuperAdmin, RoleAdmin, RoleStaff, RoleDoctor}
	RolesClinicManager = []Role{RoleSuperAdmin, RoleAdmin}
	RolesFrontDesk     = []Role{RoleSuperAdmin, RoleAdmin, RoleStaff}
	RolesClinician     = []Role{RoleSuperAdmin, RoleAdmin, RoleDoctor}
)
