package model

import "time"

// BaseModel audit timestamps embedded by mutable tables
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── roles ──

const (
	RoleStudent    = "Student"
	RoleFaculty    = "Faculty"
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "SuperAdmin"
)

// RegistrableRoles may be chosen on self-registration.
var RegistrableRoles = []string{RoleStudent, RoleFaculty, RoleAdmin}

// IsRegistrableRole reports whether role may self-register.
func IsRegistrableRole(role string) bool {
	for _, r := range RegistrableRoles {
		if r == role {
			return true
		}
	}
	return false
}
