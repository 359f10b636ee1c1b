package workflow

import (
	"context"
	"strings"
	"time"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
)

// passRunner stands in for the transaction runner: the callback runs once
// with no executor, against whatever store the factory hands out.
type passRunner struct {
	calls int
}

func (r *passRunner) Atomic(ctx context.Context, fn func(ctx context.Context, exec infra.SQLExecutor) error) error {
	r.calls++
	return fn(ctx, nil)
}

// memStore is an in-memory domain.Store. It mirrors the constraints the
// database enforces: unique emails, one application per student/scholarship
// pair, unique external transaction ids.
type memStore struct {
	users         map[string]*domain.User
	students      map[string]*domain.StudentProfile
	donors        map[string]*domain.DonorProfile
	scholarships  map[string]*domain.Scholarship
	applications  map[string]*domain.Application
	payments      map[string]*domain.Payment
	notifications []domain.Notification
	outbox        []domain.OutboxMessage
	activity      []domain.ActivityEntry
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]*domain.User{},
		students:     map[string]*domain.StudentProfile{},
		donors:       map[string]*domain.DonorProfile{},
		scholarships: map[string]*domain.Scholarship{},
		applications: map[string]*domain.Application{},
		payments:     map[string]*domain.Payment{},
	}
}

func (m *memStore) Users() domain.UserStore                 { return (*memUsers)(m) }
func (m *memStore) Students() domain.StudentStore           { return (*memStudents)(m) }
func (m *memStore) Donors() domain.DonorStore               { return (*memDonors)(m) }
func (m *memStore) Scholarships() domain.ScholarshipStore   { return (*memScholarships)(m) }
func (m *memStore) Applications() domain.ApplicationStore   { return (*memApplications)(m) }
func (m *memStore) Payments() domain.PaymentStore           { return (*memPayments)(m) }
func (m *memStore) Notifications() domain.NotificationStore { return (*memNotifications)(m) }
func (m *memStore) Outbox() domain.OutboxStore              { return (*memOutbox)(m) }
func (m *memStore) Activity() domain.ActivityStore          { return (*memActivity)(m) }

type memUsers memStore

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrConflict
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) RecordLoginFailure(_ context.Context, id string, lockedUntil *time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.FailedLogins++
	u.LockedUntil = lockedUntil
	return nil
}

func (m *memUsers) ResetLoginFailures(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.FailedLogins = 0
	u.LockedUntil = nil
	return nil
}

func (m *memUsers) BumpTokenVersion(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (m *memUsers) TokenVersion(_ context.Context, id string) (int, error) {
	u, ok := m.users[id]
	if !ok || !u.Active {
		return 0, domain.ErrNotFound
	}
	return u.TokenVersion, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) SetActive(_ context.Context, id string, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Active = active
	return nil
}

type memStudents memStore

func (m *memStudents) CreateProfile(_ context.Context, p *domain.StudentProfile) error {
	if _, ok := m.students[p.UserID]; ok {
		return domain.ErrConflict
	}
	cp := *p
	m.students[p.UserID] = &cp
	return nil
}

func (m *memStudents) GetProfile(_ context.Context, userID string) (*domain.StudentProfile, error) {
	p, ok := m.students[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStudents) UpdateProfile(_ context.Context, p *domain.StudentProfile) error {
	if _, ok := m.students[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	m.students[p.UserID] = &cp
	return nil
}

type memDonors memStore

func (m *memDonors) CreateProfile(_ context.Context, p *domain.DonorProfile) error {
	if _, ok := m.donors[p.UserID]; ok {
		return domain.ErrConflict
	}
	cp := *p
	m.donors[p.UserID] = &cp
	return nil
}

func (m *memDonors) GetProfile(_ context.Context, userID string) (*domain.DonorProfile, error) {
	p, ok := m.donors[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memDonors) AddToTotal(_ context.Context, userID string, delta int64) error {
	p, ok := m.donors[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.TotalDonatedCents += delta
	if p.TotalDonatedCents < 0 {
		p.TotalDonatedCents = 0
	}
	return nil
}

type memScholarships memStore

func (m *memScholarships) Create(_ context.Context, s *domain.Scholarship) error {
	cp := *s
	m.scholarships[s.ID] = &cp
	return nil
}

func (m *memScholarships) GetByID(_ context.Context, id string) (*domain.Scholarship, error) {
	s, ok := m.scholarships[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memScholarships) List(_ context.Context, f domain.ScholarshipFilter) ([]domain.Scholarship, error) {
	var out []domain.Scholarship
	for _, s := range m.scholarships {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.VisibleOnly && !s.Visible {
			continue
		}
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *memScholarships) SetStatus(_ context.Context, id string, status domain.ScholarshipStatus, visible bool, reason string) error {
	s, ok := m.scholarships[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	s.Visible = visible
	s.RejectionReason = reason
	return nil
}

func (m *memScholarships) AddApplicants(_ context.Context, id string, delta int) error {
	return m.addCounter(id, func(s *domain.Scholarship) { s.ApplicantCount += delta })
}

func (m *memScholarships) AddApproved(_ context.Context, id string, delta int) error {
	return m.addCounter(id, func(s *domain.Scholarship) { s.ApprovedCount += delta })
}

func (m *memScholarships) AddFunded(_ context.Context, id string, delta int) error {
	return m.addCounter(id, func(s *domain.Scholarship) { s.FundedCount += delta })
}

func (m *memScholarships) addCounter(id string, apply func(*domain.Scholarship)) error {
	s, ok := m.scholarships[id]
	if !ok {
		return domain.ErrNotFound
	}
	apply(s)
	return nil
}

type memApplications memStore

func (m *memApplications) Create(_ context.Context, a *domain.Application) error {
	for _, existing := range m.applications {
		if existing.StudentID == a.StudentID && existing.ScholarshipID == a.ScholarshipID {
			return domain.ErrConflict
		}
	}
	cp := *a
	m.applications[a.ID] = &cp
	return nil
}

func (m *memApplications) GetByID(_ context.Context, id string) (*domain.Application, error) {
	a, ok := m.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memApplications) GetByStudentAndScholarship(_ context.Context, studentID, scholarshipID string) (*domain.Application, error) {
	for _, a := range m.applications {
		if a.StudentID == studentID && a.ScholarshipID == scholarshipID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memApplications) ListByStudent(_ context.Context, studentID string) ([]domain.Application, error) {
	var out []domain.Application
	for _, a := range m.applications {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memApplications) ListByScholarship(_ context.Context, scholarshipID string) ([]domain.Application, error) {
	var out []domain.Application
	for _, a := range m.applications {
		if a.ScholarshipID == scholarshipID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memApplications) RecordReview(_ context.Context, id string, status domain.ApplicationStatus, reviewerID string, reviewedAt time.Time, comments, rejectionReason string) error {
	a, ok := m.applications[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	a.ReviewedBy = &reviewerID
	a.ReviewedAt = &reviewedAt
	a.ReviewComments = comments
	a.RejectionReason = rejectionReason
	return nil
}

func (m *memApplications) MarkFunded(_ context.Context, id, donorID string, fundedAt time.Time) error {
	a, ok := m.applications[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = domain.ApplicationFunded
	a.FundedBy = &donorID
	a.FundedAt = &fundedAt
	return nil
}

func (m *memApplications) RevertFunding(_ context.Context, id string) error {
	a, ok := m.applications[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = domain.ApplicationApproved
	a.FundedBy = nil
	a.FundedAt = nil
	return nil
}

func (m *memApplications) Delete(_ context.Context, id string) error {
	if _, ok := m.applications[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.applications, id)
	return nil
}

type memPayments memStore

func (m *memPayments) Create(_ context.Context, p *domain.Payment) error {
	for _, existing := range m.payments {
		if existing.ExternalTxnID == p.ExternalTxnID {
			return domain.ErrConflict
		}
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memPayments) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPayments) GetByExternalTxnID(_ context.Context, txnID string) (*domain.Payment, error) {
	for _, p := range m.payments {
		if p.ExternalTxnID == txnID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPayments) ListByDonor(_ context.Context, donorID string, limit int) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		if p.DonorID == donorID {
			out = append(out, *p)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memPayments) AppendEvent(_ context.Context, id string, status domain.PaymentStatus, event domain.PaymentEvent) error {
	p, ok := m.payments[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.History = append(p.History, event)
	return nil
}

type memNotifications memStore

func (m *memNotifications) Create(_ context.Context, n *domain.Notification) error {
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].UserID == userID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type memOutbox memStore

func (m *memOutbox) Enqueue(_ context.Context, topic string, payload []byte) error {
	m.outbox = append(m.outbox, domain.OutboxMessage{
		ID:      string(rune('a' + len(m.outbox))),
		Topic:   topic,
		Payload: payload,
	})
	return nil
}

func (m *memOutbox) PendingBatch(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	var out []domain.OutboxMessage
	for _, msg := range m.outbox {
		if msg.DispatchedAt == nil {
			out = append(out, msg)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memOutbox) MarkDispatched(_ context.Context, id string) error {
	for i := range m.outbox {
		if m.outbox[i].ID == id {
			now := time.Now()
			m.outbox[i].DispatchedAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memOutbox) MarkFailed(_ context.Context, id string) error {
	for i := range m.outbox {
		if m.outbox[i].ID == id {
			m.outbox[i].Attempts++
			return nil
		}
	}
	return domain.ErrNotFound
}

type memActivity memStore

func (m *memActivity) Append(_ context.Context, entry *domain.ActivityEntry) error {
	m.activity = append(m.activity, *entry)
	return nil
}

var _ domain.Store = (*memStore)(nil)
