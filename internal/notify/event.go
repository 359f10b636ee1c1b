package notify

import "encoding/json"

// Outbox topics. One topic per workflow side effect that sends email.
const (
	TopicApplicationSubmitted = "application.submitted"
	TopicApplicationReviewed  = "application.reviewed"
	TopicApplicationFunded    = "application.funded"
	TopicApplicationWithdrawn = "application.withdrawn"
	TopicPaymentRefunded      = "payment.refunded"
	TopicScholarshipReviewed  = "scholarship.reviewed"
)

// EmailEvent is the outbox payload: who to mail and the template data. It is
// written in the same transaction as the state change it reports and picked
// up by the worker, so delivery is at-least-once and eventual.
type EmailEvent struct {
	RecipientID string            `json:"recipient_id"`
	Data        map[string]string `json:"data,omitempty"`
}

// Encode marshals an EmailEvent for the outbox payload column.
func Encode(recipientID string, data map[string]string) ([]byte, error) {
	return json.Marshal(EmailEvent{RecipientID: recipientID, Data: data})
}
