package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestCoordinator(t *testing.T) (*Coordinator, *memStore) {
	t.Helper()
	mem := newMemStore()
	c := NewCoordinator(&passRunner{}, func(infra.SQLExecutor) domain.Store { return mem }, zerolog.Nop())
	c.now = func() time.Time { return testNow }
	return c, mem
}

func seedStudent(mem *memStore, id, gpa string, complete bool) {
	g, _ := decimal.NewFromString(gpa)
	mem.students[id] = &domain.StudentProfile{
		UserID:          id,
		Institution:     "State University",
		Program:         "Computer Science",
		YearOfStudy:     2,
		GPA:             g,
		ProfileComplete: complete,
	}
}

func seedDonor(mem *memStore, id string) {
	mem.donors[id] = &domain.DonorProfile{UserID: id, DonorType: domain.DonorTypeIndividual}
}

func seedScholarship(mem *memStore, id string, mutate ...func(*domain.Scholarship)) {
	s := &domain.Scholarship{
		ID:          id,
		CreatorID:   "creator-1",
		Title:       "STEM Excellence Grant",
		AmountCents: 500000,
		Deadline:    testNow.Add(30 * 24 * time.Hour),
		Category:    "stem",
		Criteria: domain.Criteria{
			MinGPA:            decimal.RequireFromString("3.0"),
			RequiredDocuments: []string{"transcript"},
		},
		Status:  domain.ScholarshipActive,
		Visible: true,
	}
	for _, fn := range mutate {
		fn(s)
	}
	mem.scholarships[id] = s
}

func applyInput() ApplyInput {
	return ApplyInput{
		StudentID:     "student-1",
		ScholarshipID: "sch-1",
		Essays:        map[string]string{"motivation": "I want to study."},
		Documents:     []Document{{Name: "transcript", URL: "https://files/transcript.pdf"}},
	}
}

func TestApply(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedStudent(mem, "student-1", "3.5", true)
	seedScholarship(mem, "sch-1")

	app, err := c.Apply(context.Background(), applyInput())
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, testNow, app.AppliedAt)
	assert.Equal(t, 1, mem.scholarships["sch-1"].ApplicantCount)
	require.Len(t, mem.notifications, 1)
	assert.Equal(t, "creator-1", mem.notifications[0].UserID)
	assert.Len(t, mem.outbox, 1)
}

func TestApplyDuplicate(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedStudent(mem, "student-1", "3.5", true)
	seedScholarship(mem, "sch-1")

	_, err := c.Apply(context.Background(), applyInput())
	require.NoError(t, err)

	_, err = c.Apply(context.Background(), applyInput())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, mem.scholarships["sch-1"].ApplicantCount)
}

func TestApplyIncompleteProfile(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedStudent(mem, "student-1", "3.5", false)
	seedScholarship(mem, "sch-1")

	_, err := c.Apply(context.Background(), applyInput())
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestApplyIneligibleGPA(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedStudent(mem, "student-1", "2.4", true)
	seedScholarship(mem, "sch-1")

	_, err := c.Apply(context.Background(), applyInput())
	var inel *domain.IneligibleError
	require.ErrorAs(t, err, &inel)
	assert.Contains(t, inel.Reason, "GPA")
	assert.Zero(t, mem.scholarships["sch-1"].ApplicantCount)
}

func TestApplyMissingDocuments(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedStudent(mem, "student-1", "3.5", true)
	seedScholarship(mem, "sch-1")

	in := applyInput()
	in.Documents = nil
	_, err := c.Apply(context.Background(), in)
	var inel *domain.IneligibleError
	require.ErrorAs(t, err, &inel)
	assert.Contains(t, inel.Reason, "transcript")
}

func TestApplyAfterDeadline(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedStudent(mem, "student-1", "3.5", true)
	seedScholarship(mem, "sch-1", func(s *domain.Scholarship) {
		s.Deadline = testNow.Add(-time.Hour)
	})

	_, err := c.Apply(context.Background(), applyInput())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func submitApplication(t *testing.T, c *Coordinator, mem *memStore) *domain.Application {
	t.Helper()
	seedStudent(mem, "student-1", "3.5", true)
	seedScholarship(mem, "sch-1")
	app, err := c.Apply(context.Background(), applyInput())
	require.NoError(t, err)
	return app
}

func TestReviewApprove(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := submitApplication(t, c, mem)

	reviewed, err := c.ReviewApplication(context.Background(), ReviewInput{
		ApplicationID: app.ID,
		AdminID:       "admin-1",
		Approve:       true,
		Comments:      "strong essays",
		Country:       "US",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ApplicationApproved, reviewed.Status)
	assert.Equal(t, 1, mem.scholarships["sch-1"].ApprovedCount)
	require.Len(t, mem.activity, 1)
	assert.Equal(t, "application_review", mem.activity[0].Action)
	assert.Equal(t, "US", mem.activity[0].Country)
}

func TestReviewReject(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := submitApplication(t, c, mem)

	reviewed, err := c.ReviewApplication(context.Background(), ReviewInput{
		ApplicationID: app.ID,
		AdminID:       "admin-1",
		Approve:       false,
		Comments:      "GPA too close to the floor",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ApplicationRejected, reviewed.Status)
	assert.Equal(t, "GPA too close to the floor", reviewed.RejectionReason)
	assert.Zero(t, mem.scholarships["sch-1"].ApprovedCount)
}

func TestReviewTwice(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := submitApplication(t, c, mem)

	_, err := c.ReviewApplication(context.Background(), ReviewInput{ApplicationID: app.ID, AdminID: "admin-1", Approve: true})
	require.NoError(t, err)

	_, err = c.ReviewApplication(context.Background(), ReviewInput{ApplicationID: app.ID, AdminID: "admin-1", Approve: false})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 1, mem.scholarships["sch-1"].ApprovedCount)
}

func approveApplication(t *testing.T, c *Coordinator, mem *memStore) *domain.Application {
	t.Helper()
	app := submitApplication(t, c, mem)
	_, err := c.ReviewApplication(context.Background(), ReviewInput{ApplicationID: app.ID, AdminID: "admin-1", Approve: true})
	require.NoError(t, err)
	return app
}

func fundInput() FundInput {
	return FundInput{
		DonorID:       "donor-1",
		StudentID:     "student-1",
		ScholarshipID: "sch-1",
		AmountCents:   250000,
		Method:        "card",
		ExternalTxnID: "cs_test_123",
	}
}

func TestFund(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := approveApplication(t, c, mem)
	seedDonor(mem, "donor-1")

	payment, err := c.Fund(context.Background(), fundInput())
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentCompleted, payment.Status)
	assert.Equal(t, app.ID, payment.ApplicationID)
	assert.Equal(t, domain.ApplicationFunded, mem.applications[app.ID].Status)
	assert.Equal(t, int64(250000), mem.donors["donor-1"].TotalDonatedCents)
	assert.Equal(t, 1, mem.scholarships["sch-1"].FundedCount)
}

func TestFundIdempotent(t *testing.T) {
	c, mem := newTestCoordinator(t)
	approveApplication(t, c, mem)
	seedDonor(mem, "donor-1")

	first, err := c.Fund(context.Background(), fundInput())
	require.NoError(t, err)

	replay, err := c.Fund(context.Background(), fundInput())
	require.NoError(t, err)

	assert.Equal(t, first.ID, replay.ID)
	assert.Len(t, mem.payments, 1)
	assert.Equal(t, int64(250000), mem.donors["donor-1"].TotalDonatedCents)
	assert.Equal(t, 1, mem.scholarships["sch-1"].FundedCount)
}

func TestFundRequiresApproval(t *testing.T) {
	c, mem := newTestCoordinator(t)
	submitApplication(t, c, mem)
	seedDonor(mem, "donor-1")

	_, err := c.Fund(context.Background(), fundInput())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, mem.payments)
}

func TestFundClosedScholarship(t *testing.T) {
	c, mem := newTestCoordinator(t)
	approveApplication(t, c, mem)
	seedDonor(mem, "donor-1")
	require.NoError(t, c.CloseScholarship(context.Background(), "sch-1", "admin-1", "US"))

	_, err := c.Fund(context.Background(), fundInput())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, mem.payments)
}

func TestFundExpiredScholarship(t *testing.T) {
	c, mem := newTestCoordinator(t)
	approveApplication(t, c, mem)
	seedDonor(mem, "donor-1")
	mem.scholarships["sch-1"].Status = domain.ScholarshipExpired

	_, err := c.Fund(context.Background(), fundInput())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, mem.payments)
}

func TestFundValidation(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.Fund(context.Background(), FundInput{AmountCents: 0})
	var val *domain.ValidationError
	require.ErrorAs(t, err, &val)
	assert.Len(t, val.Messages, 2)
}

func TestRefund(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := approveApplication(t, c, mem)
	seedDonor(mem, "donor-1")

	payment, err := c.Fund(context.Background(), fundInput())
	require.NoError(t, err)

	refunded, err := c.Refund(context.Background(), RefundInput{
		PaymentID: payment.ID,
		AdminID:   "admin-1",
		Reason:    "donor request",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentRefunded, refunded.Status)
	assert.Equal(t, domain.ApplicationApproved, mem.applications[app.ID].Status)
	assert.Nil(t, mem.applications[app.ID].FundedBy)
	assert.Zero(t, mem.donors["donor-1"].TotalDonatedCents)
	assert.Zero(t, mem.scholarships["sch-1"].FundedCount)
	require.Len(t, mem.payments[payment.ID].History, 2)
	assert.Equal(t, "donor request", mem.payments[payment.ID].History[1].Note)
}

func TestRefundTwice(t *testing.T) {
	c, mem := newTestCoordinator(t)
	approveApplication(t, c, mem)
	seedDonor(mem, "donor-1")

	payment, err := c.Fund(context.Background(), fundInput())
	require.NoError(t, err)

	in := RefundInput{PaymentID: payment.ID, AdminID: "admin-1", Reason: "donor request"}
	_, err = c.Refund(context.Background(), in)
	require.NoError(t, err)

	_, err = c.Refund(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestWithdrawPending(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := submitApplication(t, c, mem)

	err := c.Withdraw(context.Background(), WithdrawInput{StudentID: "student-1", ApplicationID: app.ID})
	require.NoError(t, err)

	assert.Empty(t, mem.applications)
	assert.Zero(t, mem.scholarships["sch-1"].ApplicantCount)
	assert.Zero(t, mem.scholarships["sch-1"].ApprovedCount)
}

func TestWithdrawApproved(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := approveApplication(t, c, mem)

	err := c.Withdraw(context.Background(), WithdrawInput{StudentID: "student-1", ApplicationID: app.ID})
	require.NoError(t, err)

	assert.Zero(t, mem.scholarships["sch-1"].ApplicantCount)
	assert.Zero(t, mem.scholarships["sch-1"].ApprovedCount)
}

func TestWithdrawForbidden(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := submitApplication(t, c, mem)

	err := c.Withdraw(context.Background(), WithdrawInput{StudentID: "someone-else", ApplicationID: app.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, mem.applications, 1)
}

func TestWithdrawFunded(t *testing.T) {
	c, mem := newTestCoordinator(t)
	app := approveApplication(t, c, mem)
	seedDonor(mem, "donor-1")
	_, err := c.Fund(context.Background(), fundInput())
	require.NoError(t, err)

	err = c.Withdraw(context.Background(), WithdrawInput{StudentID: "student-1", ApplicationID: app.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRegisterUser(t *testing.T) {
	c, mem := newTestCoordinator(t)

	user, err := c.RegisterUser(context.Background(), RegisterInput{
		Email:        "Student@Example.COM",
		PasswordHash: "hash",
		Role:         domain.UserRoleStudent,
	})
	require.NoError(t, err)

	assert.Equal(t, "student@example.com", user.Email)
	require.Contains(t, mem.students, user.ID)
	assert.False(t, mem.students[user.ID].ProfileComplete)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	c, _ := newTestCoordinator(t)

	in := RegisterInput{Email: "dup@example.com", PasswordHash: "hash", Role: domain.UserRoleDonor}
	_, err := c.RegisterUser(context.Background(), in)
	require.NoError(t, err)

	_, err = c.RegisterUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterRejectsAdmin(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.RegisterUser(context.Background(), RegisterInput{
		Email:        "root@example.com",
		PasswordHash: "hash",
		Role:         domain.UserRoleAdmin,
	})
	var val *domain.ValidationError
	assert.ErrorAs(t, err, &val)
}

func TestRegisterDonorDefaultsType(t *testing.T) {
	c, mem := newTestCoordinator(t)

	user, err := c.RegisterUser(context.Background(), RegisterInput{
		Email:        "giver@example.com",
		PasswordHash: "hash",
		Role:         domain.UserRoleDonor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DonorTypeIndividual, mem.donors[user.ID].DonorType)
}

func TestChangePassword(t *testing.T) {
	c, mem := newTestCoordinator(t)
	user, err := c.RegisterUser(context.Background(), RegisterInput{
		Email:        "s@example.com",
		PasswordHash: "old",
		Role:         domain.UserRoleStudent,
	})
	require.NoError(t, err)

	require.NoError(t, c.ChangePassword(context.Background(), user.ID, "new"))
	assert.Equal(t, "new", mem.users[user.ID].PasswordHash)
	assert.Equal(t, 1, mem.users[user.ID].TokenVersion)
}

func TestCreateScholarshipByAdmin(t *testing.T) {
	c, _ := newTestCoordinator(t)

	sch, err := c.CreateScholarship(context.Background(), CreateScholarshipInput{
		CreatorID:   "admin-1",
		CreatorRole: domain.UserRoleAdmin,
		Title:       "Merit Award",
		AmountCents: 100000,
		Deadline:    testNow.Add(48 * time.Hour).Format(time.RFC3339),
		MinGPA:      "3.2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ScholarshipActive, sch.Status)
	assert.True(t, sch.Visible)
}

func TestCreateScholarshipByDonorPending(t *testing.T) {
	c, _ := newTestCoordinator(t)

	sch, err := c.CreateScholarship(context.Background(), CreateScholarshipInput{
		CreatorID:   "donor-1",
		CreatorRole: domain.UserRoleDonor,
		Title:       "Community Fund",
		AmountCents: 100000,
		Deadline:    "2026-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ScholarshipPendingApproval, sch.Status)
	assert.False(t, sch.Visible)
}

func TestCreateScholarshipValidation(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.CreateScholarship(context.Background(), CreateScholarshipInput{
		CreatorID:   "admin-1",
		CreatorRole: domain.UserRoleAdmin,
		Deadline:    "yesterday",
	})
	var val *domain.ValidationError
	require.ErrorAs(t, err, &val)
	assert.NotEmpty(t, val.Messages)
}

func TestReviewScholarship(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedScholarship(mem, "sch-1", func(s *domain.Scholarship) {
		s.Status = domain.ScholarshipPendingApproval
		s.Visible = false
	})

	sch, err := c.ReviewScholarship(context.Background(), ScholarshipReviewInput{
		ScholarshipID: "sch-1",
		AdminID:       "admin-1",
		Approve:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ScholarshipActive, sch.Status)
	assert.True(t, sch.Visible)

	_, err = c.ReviewScholarship(context.Background(), ScholarshipReviewInput{
		ScholarshipID: "sch-1",
		AdminID:       "admin-1",
		Approve:       false,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCloseScholarship(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedScholarship(mem, "sch-1")

	require.NoError(t, c.CloseScholarship(context.Background(), "sch-1", "admin-1", "US"))
	assert.Equal(t, domain.ScholarshipClosed, mem.scholarships["sch-1"].Status)
	assert.False(t, mem.scholarships["sch-1"].Visible)

	err := c.CloseScholarship(context.Background(), "sch-1", "admin-1", "US")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApplyMissingScholarship(t *testing.T) {
	c, mem := newTestCoordinator(t)
	seedStudent(mem, "student-1", "3.5", true)

	_, err := c.Apply(context.Background(), applyInput())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
