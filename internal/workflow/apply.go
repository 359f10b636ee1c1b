package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"scholarhub/internal/domain"
	"scholarhub/internal/notify"
)

// ApplyInput carries a student's submission for one scholarship.
type ApplyInput struct {
	StudentID     string
	ScholarshipID string
	Essays        map[string]string
	Documents     []Document
}

// Document is an uploaded file reference. Files themselves live with an
// external uploader; only the metadata is recorded.
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Apply submits an application. Within one transaction it verifies the
// student and scholarship exist, that the scholarship is accepting, that no
// application for the pair exists, that the profile is complete, and that
// the eligibility criteria hold; then it inserts the application and moves
// the applicant counter.
func (c *Coordinator) Apply(ctx context.Context, in ApplyInput) (*domain.Application, error) {
	var app *domain.Application
	err := c.atomic(ctx, "apply", func(ctx context.Context, st domain.Store) error {
		profile, err := st.Students().GetProfile(ctx, in.StudentID)
		if err != nil {
			return fmt.Errorf("load student %s: %w", in.StudentID, err)
		}

		sch, err := st.Scholarships().GetByID(ctx, in.ScholarshipID)
		if err != nil {
			return fmt.Errorf("load scholarship %s: %w", in.ScholarshipID, err)
		}
		if !sch.AcceptingApplications(c.now()) {
			return fmt.Errorf("scholarship %q is not accepting applications: %w", sch.Title, domain.ErrInvalidState)
		}

		if _, err := st.Applications().GetByStudentAndScholarship(ctx, in.StudentID, in.ScholarshipID); err == nil {
			return fmt.Errorf("already applied to %q: %w", sch.Title, domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if !profile.ProfileComplete {
			return fmt.Errorf("student profile is incomplete: %w", domain.ErrPreconditionFailed)
		}

		if reason := sch.EligibilityFailure(*profile); reason != "" {
			return domain.Ineligible("%s", reason)
		}
		if missing := missingDocuments(sch.Criteria.RequiredDocuments, in.Documents); len(missing) > 0 {
			return domain.Ineligible("missing required documents: %s", strings.Join(missing, ", "))
		}

		essays, err := json.Marshal(in.Essays)
		if err != nil {
			return err
		}
		documents, err := json.Marshal(in.Documents)
		if err != nil {
			return err
		}

		app = &domain.Application{
			ID:            uuid.NewString(),
			StudentID:     in.StudentID,
			ScholarshipID: in.ScholarshipID,
			Status:        domain.ApplicationPending,
			AppliedAt:     c.now(),
			Essays:        essays,
			Documents:     documents,
		}
		// a concurrent submission loses here on the unique index
		if err := st.Applications().Create(ctx, app); err != nil {
			return err
		}
		if err := st.Scholarships().AddApplicants(ctx, sch.ID, 1); err != nil {
			return err
		}

		c.notifyUser(ctx, st, sch.CreatorID,
			"New application received",
			fmt.Sprintf("A student applied to %q.", sch.Title),
			domain.SeverityInfo, "application", app.ID)
		c.email(ctx, st, notify.TopicApplicationSubmitted, sch.CreatorID, map[string]string{
			"scholarship": sch.Title,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func missingDocuments(required []string, submitted []Document) []string {
	var missing []string
	for _, name := range required {
		found := false
		for _, doc := range submitted {
			if strings.EqualFold(doc.Name, name) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	return missing
}
