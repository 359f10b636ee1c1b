package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"scholarhub/internal/domain"
	"scholarhub/internal/notify"
)

// RefundInput carries an admin-initiated refund of one completed payment.
type RefundInput struct {
	PaymentID string
	AdminID   string
	Reason    string
	Country   string
}

// Refund reverses a funding. The payment flips to refunded with a history
// entry, the application reverts from funded to approved, the donor's total
// and the scholarship's funded counter both step back. One transaction, so
// a half-reversed funding is never observable.
func (c *Coordinator) Refund(ctx context.Context, in RefundInput) (*domain.Payment, error) {
	var payment *domain.Payment
	err := c.atomic(ctx, "refund", func(ctx context.Context, st domain.Store) error {
		var err error
		payment, err = st.Payments().GetByID(ctx, in.PaymentID)
		if err != nil {
			return fmt.Errorf("load payment %s: %w", in.PaymentID, err)
		}
		if payment.Status != domain.PaymentCompleted {
			return fmt.Errorf("payment is %s, only completed payments can be refunded: %w", payment.Status, domain.ErrInvalidState)
		}

		app, err := st.Applications().GetByID(ctx, payment.ApplicationID)
		if err != nil {
			return fmt.Errorf("load application %s: %w", payment.ApplicationID, err)
		}
		if app.Status != domain.ApplicationFunded {
			return fmt.Errorf("application is %s, refund expects funded: %w", app.Status, domain.ErrInvalidState)
		}

		sch, err := st.Scholarships().GetByID(ctx, payment.ScholarshipID)
		if err != nil {
			return fmt.Errorf("load scholarship %s: %w", payment.ScholarshipID, err)
		}

		now := c.now()
		event := domain.PaymentEvent{Status: domain.PaymentRefunded, At: now, Note: in.Reason}
		if err := st.Payments().AppendEvent(ctx, payment.ID, domain.PaymentRefunded, event); err != nil {
			return err
		}
		if err := st.Applications().RevertFunding(ctx, app.ID); err != nil {
			return err
		}
		if err := st.Donors().AddToTotal(ctx, payment.DonorID, -payment.AmountCents); err != nil {
			return err
		}
		if err := st.Scholarships().AddFunded(ctx, sch.ID, -1); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]string{
			"payment_id": payment.ID,
			"reason":     in.Reason,
		})
		if err := c.audit(ctx, st, in.AdminID, "payment_refund", details, in.Country); err != nil {
			return err
		}

		payment.Status = domain.PaymentRefunded
		payment.History = append(payment.History, event)

		amount := formatCents(payment.AmountCents)
		c.notifyUser(ctx, st, payment.DonorID,
			"Donation refunded",
			fmt.Sprintf("Your %s donation to %q was refunded: %s", amount, sch.Title, in.Reason),
			domain.SeverityWarning, "payment", payment.ID)
		c.notifyUser(ctx, st, payment.StudentID,
			"Funding reversed",
			fmt.Sprintf("Funding for your application to %q was refunded; the application is approved again.", sch.Title),
			domain.SeverityWarning, "application", app.ID)
		c.email(ctx, st, notify.TopicPaymentRefunded, payment.DonorID, map[string]string{
			"scholarship": sch.Title,
			"amount":      amount,
			"reason":      in.Reason,
		})
		c.email(ctx, st, notify.TopicPaymentRefunded, payment.StudentID, map[string]string{
			"scholarship": sch.Title,
			"amount":      amount,
			"reason":      in.Reason,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
