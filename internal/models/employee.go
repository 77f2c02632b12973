package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleViewer     Role = "viewer"
)

// IsAdministrative reports whether the role may receive scheduled reports
// and manage schedules.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type EmployeeStatus string

const (
	StatusActive      EmployeeStatus = "Active"
	StatusOnLeave     EmployeeStatus = "OnLeave"
	StatusMaternity   EmployeeStatus = "Maternity"
	StatusSuspended   EmployeeStatus = "Suspended"
	StatusTransferred EmployeeStatus = "Transferred"
	StatusResigned    EmployeeStatus = "Resigned"
)

// IsWorking reports whether the status counts as an active-equivalent value
// for recipient validation.
func (s EmployeeStatus) IsWorking() bool {
	return s == StatusActive
}

type Employee struct {
	gorm.Model
	Code       string         `gorm:"index" json:"code"`
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	Role       Role           `gorm:"not null;default:user" json:"role"`
	Status     EmployeeStatus `gorm:"default:Active" json:"status"`
	Department string         `json:"department"`
	Position   string         `json:"position"`
	Phone      string         `json:"phone"`
	JoinDate   string         `json:"join_date"`  // YYYY-MM-DD, may be empty for legacy records
	BirthDate  string         `json:"birth_date"` // YYYY-MM-DD
	Address    string         `json:"address"`
	NationalID string         `json:"national_id"`
	Tags       []string       `gorm:"serializer:json" json:"tags"`
}

func (e *Employee) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.Password = string(hashed)
	return nil
}

func (e *Employee) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(password))
	return err == nil
}
