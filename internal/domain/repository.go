package domain

import (
	"context"
	"time"
)

// UserStore defines access methods for identity records.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	RecordLoginFailure(ctx context.Context, id string, lockedUntil *time.Time) error
	ResetLoginFailures(ctx context.Context, id string) error
	BumpTokenVersion(ctx context.Context, id string) error
	TokenVersion(ctx context.Context, id string) (int, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
}

// StudentStore handles student profile persistence.
type StudentStore interface {
	CreateProfile(ctx context.Context, p *StudentProfile) error
	GetProfile(ctx context.Context, userID string) (*StudentProfile, error)
	UpdateProfile(ctx context.Context, p *StudentProfile) error
}

// DonorStore handles donor profile persistence.
type DonorStore interface {
	CreateProfile(ctx context.Context, p *DonorProfile) error
	GetProfile(ctx context.Context, userID string) (*DonorProfile, error)
	AddToTotal(ctx context.Context, userID string, deltaCents int64) error
}

// ScholarshipFilter narrows scholarship listings.
type ScholarshipFilter struct {
	Category    string
	Status      ScholarshipStatus
	VisibleOnly bool
	Limit       int
}

// ScholarshipStore handles scholarship persistence, including the
// denormalized counters moved by the workflow.
type ScholarshipStore interface {
	Create(ctx context.Context, s *Scholarship) error
	GetByID(ctx context.Context, id string) (*Scholarship, error)
	List(ctx context.Context, filter ScholarshipFilter) ([]Scholarship, error)
	SetStatus(ctx context.Context, id string, status ScholarshipStatus, visible bool, reason string) error
	AddApplicants(ctx context.Context, id string, delta int) error
	AddApproved(ctx context.Context, id string, delta int) error
	AddFunded(ctx context.Context, id string, delta int) error
}

// ApplicationStore handles the canonical applications table.
type ApplicationStore interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	GetByStudentAndScholarship(ctx context.Context, studentID, scholarshipID string) (*Application, error)
	ListByStudent(ctx context.Context, studentID string) ([]Application, error)
	ListByScholarship(ctx context.Context, scholarshipID string) ([]Application, error)
	RecordReview(ctx context.Context, id string, status ApplicationStatus, reviewerID string, reviewedAt time.Time, comments, rejectionReason string) error
	MarkFunded(ctx context.Context, id, donorID string, fundedAt time.Time) error
	RevertFunding(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// PaymentStore handles the canonical payment ledger.
type PaymentStore interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByExternalTxnID(ctx context.Context, txnID string) (*Payment, error)
	ListByDonor(ctx context.Context, donorID string, limit int) ([]Payment, error)
	AppendEvent(ctx context.Context, id string, status PaymentStatus, event PaymentEvent) error
}

// NotificationStore handles in-app notification records.
type NotificationStore interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// OutboxStore handles the transactional outbox.
type OutboxStore interface {
	Enqueue(ctx context.Context, topic string, payload []byte) error
	PendingBatch(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkDispatched(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// ActivityStore appends to the admin audit trail.
type ActivityStore interface {
	Append(ctx context.Context, entry *ActivityEntry) error
}

// Store bundles the repositories bound to one executor, either the shared
// pool or a single transaction.
type Store interface {
	Users() UserStore
	Students() StudentStore
	Donors() DonorStore
	Scholarships() ScholarshipStore
	Applications() ApplicationStore
	Payments() PaymentStore
	Notifications() NotificationStore
	Outbox() OutboxStore
	Activity() ActivityStore
}
