package workflow

import (
	"context"
	"fmt"

	"scholarhub/internal/domain"
	"scholarhub/internal/notify"
)

// WithdrawInput carries a student's withdrawal of their own application.
type WithdrawInput struct {
	StudentID     string
	ApplicationID string
	Reason        string
}

// Withdraw removes an application entirely. Permitted only while the
// application is pending or approved; a funded application must be refunded
// first. The applicant counter always steps back, and the approved counter
// too when the application had passed review, keeping both counters equal to
// the surviving rows.
func (c *Coordinator) Withdraw(ctx context.Context, in WithdrawInput) error {
	return c.atomic(ctx, "withdraw", func(ctx context.Context, st domain.Store) error {
		app, err := st.Applications().GetByID(ctx, in.ApplicationID)
		if err != nil {
			return fmt.Errorf("load application %s: %w", in.ApplicationID, err)
		}
		if app.StudentID != in.StudentID {
			return fmt.Errorf("application belongs to another student: %w", domain.ErrForbidden)
		}
		if !app.Withdrawable() {
			return fmt.Errorf("application is %s, only pending or approved applications can be withdrawn: %w", app.Status, domain.ErrInvalidState)
		}

		sch, err := st.Scholarships().GetByID(ctx, app.ScholarshipID)
		if err != nil {
			return fmt.Errorf("load scholarship %s: %w", app.ScholarshipID, err)
		}

		if err := st.Applications().Delete(ctx, app.ID); err != nil {
			return err
		}
		if err := st.Scholarships().AddApplicants(ctx, sch.ID, -1); err != nil {
			return err
		}
		if app.Status == domain.ApplicationApproved {
			if err := st.Scholarships().AddApproved(ctx, sch.ID, -1); err != nil {
				return err
			}
		}

		c.notifyUser(ctx, st, sch.CreatorID,
			"Application withdrawn",
			fmt.Sprintf("A student withdrew their application to %q.", sch.Title),
			domain.SeverityInfo, "scholarship", sch.ID)
		c.email(ctx, st, notify.TopicApplicationWithdrawn, sch.CreatorID, map[string]string{
			"scholarship": sch.Title,
			"reason":      in.Reason,
		})
		return nil
	})
}
