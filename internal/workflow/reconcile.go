package workflow

import (
	"context"

	"github.com/rs/zerolog"

	"scholarhub/internal/infra"
	"scholarhub/internal/sqlinline"
)

// CounterDrift reports one scholarship whose stored counters disagreed with
// the application rows.
type CounterDrift struct {
	ScholarshipID   string
	StoredApplicant int
	StoredApproved  int
	StoredFunded    int
	ActualApplicant int
	ActualApproved  int
	ActualFunded    int
}

// DonorDrift reports one donor whose running total disagreed with the
// completed payments.
type DonorDrift struct {
	DonorID     string
	StoredCents int64
	ActualCents int64
}

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	Scholarships []CounterDrift
	Donors       []DonorDrift
	Expired      []string
}

// Reconciler recomputes the denormalized aggregates from their source rows.
// The workflow keeps them correct transactionally; this runs on a schedule
// to repair any drift left by manual data fixes or crashed transactions.
type Reconciler struct {
	run Runner
	log zerolog.Logger
}

func NewReconciler(run Runner, log zerolog.Logger) *Reconciler {
	return &Reconciler{run: run, log: log}
}

// Run detects and repairs counter drift and expires past-deadline
// scholarships, all in one transaction so a repair cannot race a workflow
// procedure into a new inconsistency.
func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}
	err := r.run.Atomic(ctx, func(ctx context.Context, exec infra.SQLExecutor) error {
		rows, err := exec.Query(ctx, sqlinline.QSelectScholarshipDrift)
		if err != nil {
			return err
		}
		for rows.Next() {
			var d CounterDrift
			if err := rows.Scan(&d.ScholarshipID,
				&d.StoredApplicant, &d.StoredApproved, &d.StoredFunded,
				&d.ActualApplicant, &d.ActualApproved, &d.ActualFunded); err != nil {
				rows.Close()
				return err
			}
			report.Scholarships = append(report.Scholarships, d)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		for _, d := range report.Scholarships {
			if _, err := exec.Exec(ctx, sqlinline.QFixScholarshipCounters, d.ScholarshipID); err != nil {
				return err
			}
		}

		rows, err = exec.Query(ctx, sqlinline.QSelectDonorDrift)
		if err != nil {
			return err
		}
		for rows.Next() {
			var d DonorDrift
			if err := rows.Scan(&d.DonorID, &d.StoredCents, &d.ActualCents); err != nil {
				rows.Close()
				return err
			}
			report.Donors = append(report.Donors, d)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		for _, d := range report.Donors {
			if _, err := exec.Exec(ctx, sqlinline.QFixDonorTotal, d.DonorID); err != nil {
				return err
			}
		}

		expired, err := exec.Query(ctx, sqlinline.QExpireScholarships)
		if err != nil {
			return err
		}
		for expired.Next() {
			var id string
			if err := expired.Scan(&id); err != nil {
				expired.Close()
				return err
			}
			report.Expired = append(report.Expired, id)
		}
		expired.Close()
		return expired.Err()
	})
	if err != nil {
		return nil, err
	}

	for _, d := range report.Scholarships {
		reconcileDrift.WithLabelValues("scholarship").Inc()
		r.log.Warn().
			Str("scholarship_id", d.ScholarshipID).
			Int("stored_applicants", d.StoredApplicant).
			Int("actual_applicants", d.ActualApplicant).
			Msg("scholarship counters repaired")
	}
	for _, d := range report.Donors {
		reconcileDrift.WithLabelValues("donor").Inc()
		r.log.Warn().
			Str("donor_id", d.DonorID).
			Int64("stored_cents", d.StoredCents).
			Int64("actual_cents", d.ActualCents).
			Msg("donor total repaired")
	}
	if len(report.Expired) > 0 {
		r.log.Info().Int("count", len(report.Expired)).Msg("scholarships expired")
	}
	return report, nil
}
