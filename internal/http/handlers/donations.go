package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scholarhub/internal/domain"
	"scholarhub/internal/middleware"
	"scholarhub/internal/payments"
	"scholarhub/internal/workflow"
)

type intentRequest struct {
	StudentID     string `json:"student_id"`
	ScholarshipID string `json:"scholarship_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
}

// CreateDonationIntent opens a payment intent at the gateway for a donor who
// wants to fund an approved application. The ids ride in the intent metadata
// and come back on the webhook, which is where the actual funding happens.
func (a *App) CreateDonationIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var msgs []string
	if req.StudentID == "" {
		msgs = append(msgs, "student_id is required")
	}
	if req.ScholarshipID == "" {
		msgs = append(msgs, "scholarship_id is required")
	}
	if req.AmountCents <= 0 {
		msgs = append(msgs, "amount_cents must be positive")
	}
	if len(msgs) > 0 {
		a.fail(w, domain.Validation(msgs...))
		return
	}
	donorID := middleware.UserIDFromContext(r.Context())

	st := a.store()
	app, err := st.Applications().GetByStudentAndScholarship(r.Context(), req.StudentID, req.ScholarshipID)
	if err != nil {
		a.fail(w, err)
		return
	}
	if !app.Fundable() {
		a.error(w, http.StatusConflict, "application is not approved for funding")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}
	intent, err := a.Gateway.CreateIntent(r.Context(), req.AmountCents, currency, map[string]string{
		"donor_id":       donorID,
		"student_id":     req.StudentID,
		"scholarship_id": req.ScholarshipID,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"intent_id":     intent.ID,
		"client_secret": intent.ClientSecret,
		"amount_cents":  intent.AmountCents,
		"currency":      intent.Currency,
	})
}

// PaymentWebhook receives gateway deliveries. Only completed checkouts move
// money; everything else is acknowledged and dropped. Replays are absorbed
// by the idempotent funding procedure, so the gateway may retry freely.
func (a *App) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		a.error(w, http.StatusBadRequest, "unreadable payload")
		return
	}
	event, err := payments.ParseWebhook(payload, r.Header.Get("Webhook-Signature"), a.WebhookSecret)
	if err != nil {
		if errors.Is(err, payments.ErrBadSignature) {
			a.error(w, http.StatusUnauthorized, "signature verification failed")
			return
		}
		a.error(w, http.StatusBadRequest, "malformed event")
		return
	}
	if event.Type != "checkout.session.completed" {
		a.json(w, http.StatusOK, map[string]any{"received": true})
		return
	}
	_, err = a.Flow.Fund(r.Context(), workflow.FundInput{
		DonorID:       event.Metadata["donor_id"],
		StudentID:     event.Metadata["student_id"],
		ScholarshipID: event.Metadata["scholarship_id"],
		AmountCents:   event.AmountCents,
		Method:        event.Method,
		ExternalTxnID: event.SessionID,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("session_id", event.SessionID).Msg("webhook funding failed")
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"received": true})
}

type refundRequest struct {
	Reason string `json:"reason"`
}

// RefundPayment reverses a completed payment. Admin only.
func (a *App) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	payment, err := a.Flow.Refund(r.Context(), workflow.RefundInput{
		PaymentID: chi.URLParam(r, "id"),
		AdminID:   middleware.UserIDFromContext(r.Context()),
		Reason:    req.Reason,
		Country:   middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"payment": paymentDTO(payment)})
}

type paymentDTOOut struct {
	ID            string                `json:"id"`
	StudentID     string                `json:"student_id"`
	ScholarshipID string                `json:"scholarship_id"`
	ApplicationID string                `json:"application_id"`
	AmountCents   int64                 `json:"amount_cents"`
	Method        string                `json:"method"`
	Status        string                `json:"status"`
	History       []domain.PaymentEvent `json:"history"`
	CreatedAt     string                `json:"created_at"`
}

func paymentDTO(p *domain.Payment) paymentDTOOut {
	return paymentDTOOut{
		ID:            p.ID,
		StudentID:     p.StudentID,
		ScholarshipID: p.ScholarshipID,
		ApplicationID: p.ApplicationID,
		AmountCents:   p.AmountCents,
		Method:        p.Method,
		Status:        string(p.Status),
		History:       p.History,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// DonorDashboard summarizes the caller's giving: profile totals plus the
// most recent payments from the canonical ledger.
func (a *App) DonorDashboard(w http.ResponseWriter, r *http.Request) {
	donorID := middleware.UserIDFromContext(r.Context())
	st := a.store()
	profile, err := st.Donors().GetProfile(r.Context(), donorID)
	if err != nil {
		a.fail(w, err)
		return
	}
	list, err := st.Payments().ListByDonor(r.Context(), donorID, 50)
	if err != nil {
		a.fail(w, err)
		return
	}
	history := make([]paymentDTOOut, 0, len(list))
	for i := range list {
		history = append(history, paymentDTO(&list[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"donor_type":          profile.DonorType,
		"total_donated_cents": profile.TotalDonatedCents,
		"payments":            history,
	})
}
