package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"scholarhub/internal/domain"
	"scholarhub/internal/notify"
)

// ReviewInput carries an admin decision on one application.
type ReviewInput struct {
	ApplicationID string
	AdminID       string
	Approve       bool
	Comments      string
	Country       string
}

// ReviewApplication records an admin decision. Only pending applications are
// reviewable; re-reviewing fails invalid state and leaves every counter
// untouched. Approval moves the scholarship's approved counter, the decision
// lands in the audit trail, and the student is notified.
func (c *Coordinator) ReviewApplication(ctx context.Context, in ReviewInput) (*domain.Application, error) {
	var app *domain.Application
	err := c.atomic(ctx, "review", func(ctx context.Context, st domain.Store) error {
		var err error
		app, err = st.Applications().GetByID(ctx, in.ApplicationID)
		if err != nil {
			return fmt.Errorf("load application %s: %w", in.ApplicationID, err)
		}
		if !app.Reviewable() {
			return fmt.Errorf("application is %s, only pending applications can be reviewed: %w", app.Status, domain.ErrInvalidState)
		}

		sch, err := st.Scholarships().GetByID(ctx, app.ScholarshipID)
		if err != nil {
			return fmt.Errorf("load scholarship %s: %w", app.ScholarshipID, err)
		}

		now := c.now()
		status := domain.ApplicationRejected
		comments, rejection := "", in.Comments
		if in.Approve {
			status = domain.ApplicationApproved
			comments, rejection = in.Comments, ""
		}
		if err := st.Applications().RecordReview(ctx, app.ID, status, in.AdminID, now, comments, rejection); err != nil {
			return err
		}
		if in.Approve {
			if err := st.Scholarships().AddApproved(ctx, sch.ID, 1); err != nil {
				return err
			}
		}

		details, _ := json.Marshal(map[string]string{
			"application_id": app.ID,
			"scholarship_id": sch.ID,
			"decision":       string(status),
		})
		if err := c.audit(ctx, st, in.AdminID, "application_review", details, in.Country); err != nil {
			return err
		}

		app.Status = status
		app.ReviewedBy = &in.AdminID
		app.ReviewedAt = &now
		app.ReviewComments = comments
		app.RejectionReason = rejection

		severity, title := domain.SeveritySuccess, "Application approved"
		if !in.Approve {
			severity, title = domain.SeverityWarning, "Application rejected"
		}
		c.notifyUser(ctx, st, app.StudentID, title,
			fmt.Sprintf("Your application to %q was %s.", sch.Title, status),
			severity, "application", app.ID)
		c.email(ctx, st, notify.TopicApplicationReviewed, app.StudentID, map[string]string{
			"scholarship": sch.Title,
			"decision":    string(status),
			"comments":    in.Comments,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}
