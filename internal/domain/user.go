package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// UserRole enumerates the three account variants. Role is written once at
// registration and never updated afterwards.
type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleDonor   UserRole = "donor"
	UserRoleAdmin   UserRole = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleStudent, UserRoleDonor, UserRoleAdmin:
		return true
	}
	return false
}

// User is the shared identity record for all roles.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         UserRole
	Active       bool
	Verified     bool
	FailedLogins int
	LockedUntil  *time.Time
	TokenVersion int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Locked reports whether the login lockout is still in effect at now.
func (u User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// StudentProfile holds the student-only fields. Applications reference the
// owning user id; they are not embedded here.
type StudentProfile struct {
	UserID          string
	Institution     string
	Program         string
	YearOfStudy     int
	GPA             decimal.Decimal
	Financial       json.RawMessage
	ProfileComplete bool
}

// DonorType distinguishes individual supporters from organizations.
type DonorType string

const (
	DonorTypeIndividual   DonorType = "individual"
	DonorTypeOrganization DonorType = "organization"
)

// DonorProfile holds donor-only fields. TotalDonatedCents is a denormalized
// running total over completed payments; the workflow maintains it inside the
// same transaction as the payment mutation and the reconciler repairs drift.
type DonorProfile struct {
	UserID            string
	DonorType         DonorType
	TotalDonatedCents int64
}

// AdminProfile holds admin-only fields.
type AdminProfile struct {
	UserID      string
	Permissions json.RawMessage
}

// ActivityEntry is one row of the append-only admin audit trail.
type ActivityEntry struct {
	ID        string
	AdminID   string
	Action    string
	Details   json.RawMessage
	Country   string
	CreatedAt time.Time
}
