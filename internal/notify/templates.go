package notify

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Render produces the subject and HTML body for an outbox topic. Unknown
// topics get a generic envelope rather than an error so a stale outbox row
// can still drain.
func Render(topic string, data map[string]string) (subject, body string) {
	scholarship := data["scholarship"]
	switch topic {
	case TopicApplicationSubmitted:
		subject = fmt.Sprintf("New application for %s", scholarship)
		body = fmt.Sprintf("<p>A student has applied to <b>%s</b>. Sign in to review the application.</p>", scholarship)
	case TopicApplicationReviewed:
		decision := titleCaser.String(data["decision"])
		subject = fmt.Sprintf("%s: your application to %s", decision, scholarship)
		body = fmt.Sprintf("<p>Your application to <b>%s</b> was <b>%s</b>.</p>", scholarship, data["decision"])
		if data["comments"] != "" {
			body += fmt.Sprintf("<p>Reviewer comments: %s</p>", data["comments"])
		}
	case TopicApplicationFunded:
		if data["role"] == "donor" {
			subject = fmt.Sprintf("Thank you for funding %s", scholarship)
			body = fmt.Sprintf("<p>Your donation of %s to <b>%s</b> was received. Thank you!</p>", data["amount"], scholarship)
		} else {
			subject = fmt.Sprintf("Your application to %s is funded", scholarship)
			body = fmt.Sprintf("<p>Great news: a donor funded your application to <b>%s</b> with %s.</p>", scholarship, data["amount"])
		}
	case TopicApplicationWithdrawn:
		subject = fmt.Sprintf("Application withdrawn from %s", scholarship)
		body = fmt.Sprintf("<p>A student withdrew their application to <b>%s</b>.</p>", scholarship)
		if data["reason"] != "" {
			body += fmt.Sprintf("<p>Reason: %s</p>", data["reason"])
		}
	case TopicPaymentRefunded:
		subject = fmt.Sprintf("Refund processed for %s", scholarship)
		body = fmt.Sprintf("<p>The %s payment linked to <b>%s</b> was refunded.</p><p>Reason: %s</p>",
			data["amount"], scholarship, data["reason"])
	case TopicScholarshipReviewed:
		decision := titleCaser.String(data["decision"])
		subject = fmt.Sprintf("%s: your scholarship %s", decision, scholarship)
		body = fmt.Sprintf("<p>Your scholarship <b>%s</b> was <b>%s</b>.</p>", scholarship, data["decision"])
		if data["reason"] != "" {
			body += fmt.Sprintf("<p>Reason: %s</p>", data["reason"])
		}
	default:
		subject = "Notification from ScholarHub"
		body = "<p>You have a new notification. Sign in to see the details.</p>"
	}
	return subject, body
}
