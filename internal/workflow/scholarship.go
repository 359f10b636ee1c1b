package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"scholarhub/internal/domain"
	"scholarhub/internal/notify"
)

// CreateScholarshipInput carries a new offer from an admin or donor.
type CreateScholarshipInput struct {
	CreatorID    string
	CreatorRole  domain.UserRole
	Title        string
	Description  string
	AmountCents  int64
	Deadline     string
	Category     string
	MinGPA       string
	Required     []string
	Institutions []string
	Programs     []string
}

func parseDeadline(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// CreateScholarship validates and inserts a new offer. Admin-created offers
// go live immediately; donor-created ones start pending approval and stay
// hidden until an admin reviews them.
func (c *Coordinator) CreateScholarship(ctx context.Context, in CreateScholarshipInput) (*domain.Scholarship, error) {
	var msgs []string
	if in.Title == "" {
		msgs = append(msgs, "title is required")
	}
	if in.AmountCents <= 0 {
		msgs = append(msgs, "amount must be positive")
	}
	deadline, err := parseDeadline(in.Deadline)
	if err != nil {
		msgs = append(msgs, "deadline must be RFC 3339 or YYYY-MM-DD")
	} else if !deadline.After(c.now()) {
		msgs = append(msgs, "deadline must be in the future")
	}
	minGPA := decimal.Zero
	if in.MinGPA != "" {
		if minGPA, err = decimal.NewFromString(in.MinGPA); err != nil {
			msgs = append(msgs, "min_gpa must be a decimal number")
		}
	}
	if in.CreatorRole != domain.UserRoleAdmin && in.CreatorRole != domain.UserRoleDonor {
		msgs = append(msgs, "only admins and donors can create scholarships")
	}
	if err := domain.Validation(msgs...); err != nil {
		return nil, err
	}

	status, visible := domain.ScholarshipPendingApproval, false
	if in.CreatorRole == domain.UserRoleAdmin {
		status, visible = domain.ScholarshipActive, true
	}

	sch := &domain.Scholarship{
		ID:          uuid.NewString(),
		CreatorID:   in.CreatorID,
		Title:       in.Title,
		Description: in.Description,
		AmountCents: in.AmountCents,
		Deadline:    deadline,
		Category:    in.Category,
		Criteria: domain.Criteria{
			MinGPA:               minGPA,
			RequiredDocuments:    in.Required,
			EligibleInstitutions: in.Institutions,
			EligiblePrograms:     in.Programs,
		},
		Status:  status,
		Visible: visible,
	}
	err = c.atomic(ctx, "create_scholarship", func(ctx context.Context, st domain.Store) error {
		return st.Scholarships().Create(ctx, sch)
	})
	if err != nil {
		return nil, err
	}
	return sch, nil
}

// ScholarshipReviewInput carries an admin decision on a donor-submitted offer.
type ScholarshipReviewInput struct {
	ScholarshipID string
	AdminID       string
	Approve       bool
	Reason        string
	Country       string
}

// ReviewScholarship moves a pending_approval offer to active+visible or
// rejected. Any other starting status fails invalid state.
func (c *Coordinator) ReviewScholarship(ctx context.Context, in ScholarshipReviewInput) (*domain.Scholarship, error) {
	var sch *domain.Scholarship
	err := c.atomic(ctx, "review_scholarship", func(ctx context.Context, st domain.Store) error {
		var err error
		sch, err = st.Scholarships().GetByID(ctx, in.ScholarshipID)
		if err != nil {
			return fmt.Errorf("load scholarship %s: %w", in.ScholarshipID, err)
		}
		if sch.Status != domain.ScholarshipPendingApproval {
			return fmt.Errorf("scholarship is %s, only pending_approval can be reviewed: %w", sch.Status, domain.ErrInvalidState)
		}

		status, visible, reason := domain.ScholarshipActive, true, ""
		if !in.Approve {
			status, visible, reason = domain.ScholarshipRejected, false, in.Reason
		}
		if err := st.Scholarships().SetStatus(ctx, sch.ID, status, visible, reason); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]string{
			"scholarship_id": sch.ID,
			"decision":       string(status),
		})
		if err := c.audit(ctx, st, in.AdminID, "scholarship_review", details, in.Country); err != nil {
			return err
		}

		sch.Status = status
		sch.Visible = visible
		sch.RejectionReason = reason

		title, severity := "Scholarship approved", domain.SeveritySuccess
		message := fmt.Sprintf("Your scholarship %q is now live.", sch.Title)
		if !in.Approve {
			title, severity = "Scholarship rejected", domain.SeverityWarning
			message = fmt.Sprintf("Your scholarship %q was rejected: %s", sch.Title, in.Reason)
		}
		c.notifyUser(ctx, st, sch.CreatorID, title, message, severity, "scholarship", sch.ID)
		c.email(ctx, st, notify.TopicScholarshipReviewed, sch.CreatorID, map[string]string{
			"scholarship": sch.Title,
			"decision":    string(status),
			"reason":      in.Reason,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sch, nil
}

// CloseScholarship takes an active offer off the board.
func (c *Coordinator) CloseScholarship(ctx context.Context, scholarshipID, adminID, country string) error {
	return c.atomic(ctx, "close_scholarship", func(ctx context.Context, st domain.Store) error {
		sch, err := st.Scholarships().GetByID(ctx, scholarshipID)
		if err != nil {
			return fmt.Errorf("load scholarship %s: %w", scholarshipID, err)
		}
		if sch.Status != domain.ScholarshipActive {
			return fmt.Errorf("scholarship is %s, only active scholarships can be closed: %w", sch.Status, domain.ErrInvalidState)
		}
		if err := st.Scholarships().SetStatus(ctx, sch.ID, domain.ScholarshipClosed, false, ""); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]string{"scholarship_id": sch.ID})
		return c.audit(ctx, st, adminID, "scholarship_close", details, country)
	})
}
