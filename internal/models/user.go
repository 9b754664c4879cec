package models

// Role is the platform role carried by a user.
type Role string

const (
	RoleAthlete  Role = "athlete"
	RoleInvestor Role = "investor"
	RoleAdmin    Role = "admin"
)

// User represents an account provisioned by the identity system. This module
// only reads users; it never creates credentials.
type User struct {
	Base
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `gorm:"not null;default:'athlete'" json:"role"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}

// FullName joins first and last name with a single space.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
