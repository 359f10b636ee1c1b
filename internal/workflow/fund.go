package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"scholarhub/internal/domain"
	"scholarhub/internal/notify"
)

// FundInput carries a captured donor payment toward one application.
type FundInput struct {
	DonorID       string
	StudentID     string
	ScholarshipID string
	AmountCents   int64
	Method        string
	ExternalTxnID string
}

// Fund applies a donor payment: it creates the canonical payment row, flips
// the approved application to funded, moves the donor's running total and
// the scholarship's funded counter, all in one transaction.
//
// Fund is idempotent on ExternalTxnID. A replayed webhook finds the existing
// payment and returns it without touching anything, so exactly one payment
// row and one funded transition exist per external transaction.
func (c *Coordinator) Fund(ctx context.Context, in FundInput) (*domain.Payment, error) {
	var msgs []string
	if in.AmountCents <= 0 {
		msgs = append(msgs, "amount must be positive")
	}
	if in.ExternalTxnID == "" {
		msgs = append(msgs, "external transaction id is required")
	}
	if err := domain.Validation(msgs...); err != nil {
		return nil, err
	}

	var payment *domain.Payment
	err := c.atomic(ctx, "fund", func(ctx context.Context, st domain.Store) error {
		existing, err := st.Payments().GetByExternalTxnID(ctx, in.ExternalTxnID)
		if err == nil {
			payment = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		donor, err := st.Donors().GetProfile(ctx, in.DonorID)
		if err != nil {
			return fmt.Errorf("load donor %s: %w", in.DonorID, err)
		}

		app, err := st.Applications().GetByStudentAndScholarship(ctx, in.StudentID, in.ScholarshipID)
		if err != nil {
			return fmt.Errorf("load application for student %s: %w", in.StudentID, err)
		}
		if !app.Fundable() {
			return fmt.Errorf("application is %s, only approved applications can be funded: %w", app.Status, domain.ErrInvalidState)
		}

		sch, err := st.Scholarships().GetByID(ctx, in.ScholarshipID)
		if err != nil {
			return fmt.Errorf("load scholarship %s: %w", in.ScholarshipID, err)
		}
		if !sch.Fundable() {
			return fmt.Errorf("scholarship is %s, payments can only fund active offers: %w", sch.Status, domain.ErrInvalidState)
		}

		now := c.now()
		payment = &domain.Payment{
			ID:            uuid.NewString(),
			DonorID:       donor.UserID,
			StudentID:     in.StudentID,
			ScholarshipID: in.ScholarshipID,
			ApplicationID: app.ID,
			AmountCents:   in.AmountCents,
			Method:        in.Method,
			ExternalTxnID: in.ExternalTxnID,
			Status:        domain.PaymentCompleted,
			History: []domain.PaymentEvent{
				{Status: domain.PaymentCompleted, At: now},
			},
		}
		if err := st.Payments().Create(ctx, payment); err != nil {
			// a concurrent replay won the unique index race
			if errors.Is(err, domain.ErrConflict) {
				payment, err = st.Payments().GetByExternalTxnID(ctx, in.ExternalTxnID)
				return err
			}
			return err
		}

		if err := st.Applications().MarkFunded(ctx, app.ID, donor.UserID, now); err != nil {
			return err
		}
		if err := st.Donors().AddToTotal(ctx, donor.UserID, in.AmountCents); err != nil {
			return err
		}
		if err := st.Scholarships().AddFunded(ctx, sch.ID, 1); err != nil {
			return err
		}

		amount := formatCents(in.AmountCents)
		c.notifyUser(ctx, st, donor.UserID,
			"Donation received",
			fmt.Sprintf("Thank you for funding %q with %s.", sch.Title, amount),
			domain.SeveritySuccess, "payment", payment.ID)
		c.notifyUser(ctx, st, in.StudentID,
			"Application funded",
			fmt.Sprintf("Your application to %q has been funded.", sch.Title),
			domain.SeveritySuccess, "application", app.ID)
		c.email(ctx, st, notify.TopicApplicationFunded, donor.UserID, map[string]string{
			"scholarship": sch.Title,
			"amount":      amount,
			"role":        "donor",
		})
		c.email(ctx, st, notify.TopicApplicationFunded, in.StudentID, map[string]string{
			"scholarship": sch.Title,
			"amount":      amount,
			"role":        "student",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
