package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testProfile() StudentProfile {
	return StudentProfile{
		UserID:          "student-1",
		Institution:     "State University",
		Program:         "Computer Science",
		GPA:             decimal.RequireFromString("3.50"),
		ProfileComplete: true,
	}
}

func TestAcceptingApplications(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		status   ScholarshipStatus
		deadline time.Time
		want     bool
	}{
		{"active before deadline", ScholarshipActive, now.Add(time.Hour), true},
		{"active past deadline", ScholarshipActive, now.Add(-time.Hour), false},
		{"pending approval", ScholarshipPendingApproval, now.Add(time.Hour), false},
		{"closed", ScholarshipClosed, now.Add(time.Hour), false},
		{"expired", ScholarshipExpired, now.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Scholarship{Status: tt.status, Deadline: tt.deadline}
			assert.Equal(t, tt.want, s.AcceptingApplications(now))
		})
	}
}

func TestEligibilityFailure(t *testing.T) {
	base := Scholarship{
		Criteria: Criteria{MinGPA: decimal.RequireFromString("3.0")},
	}

	t.Run("eligible", func(t *testing.T) {
		assert.Empty(t, base.EligibilityFailure(testProfile()))
	})

	t.Run("gpa below minimum", func(t *testing.T) {
		p := testProfile()
		p.GPA = decimal.RequireFromString("2.99")
		assert.Contains(t, base.EligibilityFailure(p), "GPA")
	})

	t.Run("gpa exactly at minimum", func(t *testing.T) {
		p := testProfile()
		p.GPA = decimal.RequireFromString("3.00")
		assert.Empty(t, base.EligibilityFailure(p))
	})

	t.Run("institution restricted", func(t *testing.T) {
		s := base
		s.Criteria.EligibleInstitutions = []string{"Other College"}
		assert.Contains(t, s.EligibilityFailure(testProfile()), "institution")
	})

	t.Run("institution match is case-insensitive", func(t *testing.T) {
		s := base
		s.Criteria.EligibleInstitutions = []string{"STATE UNIVERSITY"}
		assert.Empty(t, s.EligibilityFailure(testProfile()))
	})

	t.Run("program restricted", func(t *testing.T) {
		s := base
		s.Criteria.EligiblePrograms = []string{"Medicine"}
		assert.Contains(t, s.EligibilityFailure(testProfile()), "program")
	})
}

func TestApplicationPredicates(t *testing.T) {
	tests := []struct {
		status       ApplicationStatus
		reviewable   bool
		fundable     bool
		withdrawable bool
	}{
		{ApplicationPending, true, false, true},
		{ApplicationApproved, false, true, true},
		{ApplicationRejected, false, false, false},
		{ApplicationFunded, false, false, false},
		{ApplicationCompleted, false, false, false},
		{ApplicationCanceled, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := Application{Status: tt.status}
			assert.Equal(t, tt.reviewable, a.Reviewable())
			assert.Equal(t, tt.fundable, a.Fundable())
			assert.Equal(t, tt.withdrawable, a.Withdrawable())
		})
	}
}

func TestUserLocked(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Minute)
	earlier := now.Add(-time.Minute)

	assert.False(t, User{}.Locked(now))
	assert.True(t, User{LockedUntil: &later}.Locked(now))
	assert.False(t, User{LockedUntil: &earlier}.Locked(now))
}

func TestValidationHelper(t *testing.T) {
	assert.NoError(t, Validation())
	err := Validation("first", "second")
	var val *ValidationError
	assert.ErrorAs(t, err, &val)
	assert.Len(t, val.Messages, 2)
}
