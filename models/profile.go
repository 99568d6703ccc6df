package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is a closed enum; keep the capability checks below as the single
// allow-list instead of ad-hoc slice lookups at call sites.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// CanManage reports whether the role may mutate properties/reservations and
// view the admin dashboard.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func IsValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type Profile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"uniqueIndex;size:150" json:"email"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`
	Password  string `gorm:"size:255" json:"-"` // bcrypt hash, never returned
	Role      Role   `gorm:"size:32;default:customer" json:"role"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
