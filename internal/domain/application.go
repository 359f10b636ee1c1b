package domain

import (
	"encoding/json"
	"time"
)

// ApplicationStatus enumerates the application lifecycle. Transitions move
// forward only, with the single exception of a refund reverting funded back
// to approved.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationFunded    ApplicationStatus = "funded"
	ApplicationCompleted ApplicationStatus = "completed"
	ApplicationCanceled  ApplicationStatus = "canceled"
)

// Application is a student's request to be considered for a scholarship.
// At most one application exists per (student, scholarship) pair; the
// applications table enforces this with a unique index.
type Application struct {
	ID              string
	StudentID       string
	ScholarshipID   string
	Status          ApplicationStatus
	AppliedAt       time.Time
	ReviewedBy      *string
	ReviewedAt      *time.Time
	ReviewComments  string
	RejectionReason string
	FundedBy        *string
	FundedAt        *time.Time
	Essays          json.RawMessage
	Documents       json.RawMessage
}

// Reviewable reports whether an admin decision may still be recorded.
func (a Application) Reviewable() bool {
	return a.Status == ApplicationPending
}

// Fundable reports whether a donor payment may be applied. Funding requires
// a prior approval; pending or rejected applications cannot be funded.
func (a Application) Fundable() bool {
	return a.Status == ApplicationApproved
}

// Withdrawable reports whether the student may still withdraw.
func (a Application) Withdrawable() bool {
	return a.Status == ApplicationPending || a.Status == ApplicationApproved
}
