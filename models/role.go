package models

// Role is the closed set of account roles. Mutation of existing records is
// reserved for the administrator role.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAdministrator
}

// CanManageRecords reports whether the role may edit or delete records.
func (r Role) CanManageRecords() bool {
	return r == RoleAdministrator
}
