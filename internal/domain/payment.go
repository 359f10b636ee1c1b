package domain

import "time"

// PaymentStatus enumerates the ledger states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentEvent is one entry of a payment's append-only status history.
type PaymentEvent struct {
	Status PaymentStatus `json:"status"`
	At     time.Time     `json:"at"`
	Note   string        `json:"note,omitempty"`
}

// Payment is the canonical funding record. ExternalTxnID is unique and is
// the idempotency key for webhook replays; donor dashboards read this table
// directly rather than a denormalized copy.
type Payment struct {
	ID            string
	DonorID       string
	StudentID     string
	ScholarshipID string
	ApplicationID string
	AmountCents   int64
	Method        string
	ExternalTxnID string
	Status        PaymentStatus
	History       []PaymentEvent
	CreatedAt     time.Time
}

// NotificationSeverity grades in-app notifications.
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeveritySuccess NotificationSeverity = "success"
	SeverityWarning NotificationSeverity = "warning"
	SeverityError   NotificationSeverity = "error"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID          string
	UserID      string
	Title       string
	Message     string
	Severity    NotificationSeverity
	RelatedType string
	RelatedID   string
	Read        bool
	CreatedAt   time.Time
}

// OutboxMessage is a pending side effect written in the same transaction as
// the state change it reports. The worker drains the table and sends email.
type OutboxMessage struct {
	ID           string
	Topic        string
	Payload      []byte
	Attempts     int
	CreatedAt    time.Time
	DispatchedAt *time.Time
}
