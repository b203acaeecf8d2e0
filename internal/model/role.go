package model

// Role is the closed set of user roles. Capability checks live here so
// handlers never branch on raw role strings.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleReception  Role = "reception"
	RoleStaff      Role = "staff"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperadmin, RoleAdmin, RoleReception, RoleStaff:
		return Role(s), true
	}
	return "", false
}

// CanManageCatalog covers services, categories and staff profiles.
func (r Role) CanManageCatalog() bool {
	return r == RoleSuperadmin || r == RoleAdmin
}

// CanManageCalendar covers clients and the appointment calendar.
func (r Role) CanManageCalendar() bool {
	return r == RoleReception || r.CanManageCatalog()
}

// SkillExempt reports whether the role may perform any service regardless
// of recorded skills.
func (r Role) SkillExempt() bool {
	return r == RoleSuperadmin || r == RoleAdmin
}
