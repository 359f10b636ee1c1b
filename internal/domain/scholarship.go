package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ScholarshipStatus enumerates the offer lifecycle.
type ScholarshipStatus string

const (
	ScholarshipPendingApproval ScholarshipStatus = "pending_approval"
	ScholarshipActive          ScholarshipStatus = "active"
	ScholarshipRejected        ScholarshipStatus = "rejected"
	ScholarshipClosed          ScholarshipStatus = "closed"
	ScholarshipExpired         ScholarshipStatus = "expired"
)

// Criteria are the eligibility rules evaluated at application time. Empty
// institution/program lists mean no restriction.
type Criteria struct {
	MinGPA               decimal.Decimal
	RequiredDocuments    []string
	EligibleInstitutions []string
	EligiblePrograms     []string
}

// Scholarship is a funding offer. Counters are denormalized aggregates over
// the applications table, maintained in the same transaction as the state
// change that moves them.
type Scholarship struct {
	ID              string
	CreatorID       string
	Title           string
	Description     string
	AmountCents     int64
	Deadline        time.Time
	Category        string
	Criteria        Criteria
	Status          ScholarshipStatus
	Visible         bool
	RejectionReason string
	ApplicantCount  int
	ApprovedCount   int
	FundedCount     int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AcceptingApplications reports whether new applications may be submitted at now.
func (s Scholarship) AcceptingApplications(now time.Time) bool {
	return s.Status == ScholarshipActive && now.Before(s.Deadline)
}

// Fundable reports whether donor payments may still be applied. A closed,
// expired or unreviewed offer accepts no money.
func (s Scholarship) Fundable() bool {
	return s.Status == ScholarshipActive
}

// EligibilityFailure returns a reason string when the profile fails the
// criteria, or "" when the student is eligible.
func (s Scholarship) EligibilityFailure(p StudentProfile) string {
	if p.GPA.LessThan(s.Criteria.MinGPA) {
		return "GPA " + p.GPA.StringFixed(2) + " is below the required minimum of " + s.Criteria.MinGPA.StringFixed(2)
	}
	if len(s.Criteria.EligibleInstitutions) > 0 && !containsFold(s.Criteria.EligibleInstitutions, p.Institution) {
		return "institution " + p.Institution + " is not eligible for this scholarship"
	}
	if len(s.Criteria.EligiblePrograms) > 0 && !containsFold(s.Criteria.EligiblePrograms, p.Program) {
		return "program " + p.Program + " is not eligible for this scholarship"
	}
	return ""
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
