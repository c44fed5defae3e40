package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/ozclean/cleaning-app/utils"
)

// Template identifies one of the outbound email templates.
type Template string

const (
	TemplateBookingConfirmation Template = "booking_confirmation"
	TemplateWorkAssignment      Template = "work_assignment"
	TemplateEnquiryConfirmation Template = "enquiry_confirmation"
)

const resendAPI = "https://api.resend.com/emails"
const defaultFrom = "OzClean <noreply@ozclean.com.au>"

type resendEmail struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

// Sender delivers a rendered email. Swapped out in tests.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// ResendSender sends through the Resend HTTPS API. Without an API key it
// logs a mock send and reports success, so development environments work
// without credentials.
type ResendSender struct {
	Client *http.Client
}

func NewResendSender() *ResendSender {
	return &ResendSender{Client: http.DefaultClient}
}

func (s *ResendSender) Send(to, subject, htmlBody, textBody string) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		utils.InfoLogger.Printf("mailer: RESEND_API_KEY not set, mock email to %s (%s)", to, subject)
		return nil
	}

	payload := resendEmail{
		From:    defaultFrom,
		To:      to,
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, resendAPI, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend API error: %s", resp.Status)
	}
	return nil
}

// Fields carries the template placeholders for one email.
type Fields map[string]string

// Render produces subject and bodies for the given template.
func Render(tmpl Template, f Fields) (subject, html, text string) {
	switch tmpl {
	case TemplateBookingConfirmation:
		subject = "Your cleaning booking has been received"
		html = fmt.Sprintf(`
			<h2>Booking received</h2>
			<p>Hi %s,</p>
			<p>We have received your booking <b>%s</b> for %s at %s.</p>
			<p>Estimated cost: <b>%s</b>. We will confirm your booking shortly.</p>
		`, f["name"], f["reference"], f["date"], f["address"], f["estimated_cost"])
		text = fmt.Sprintf("Hi %s, we have received your booking %s for %s.", f["name"], f["reference"], f["date"])
	case TemplateWorkAssignment:
		subject = "A cleaner has been assigned to your booking"
		html = fmt.Sprintf(`
			<h2>%s</h2>
			<p>Hi %s,</p>
			<p><b>%s</b> will be taking care of your booking <b>%s</b> on %s.</p>
			<p>Status: <b>confirmed</b>.</p>
		`, f["headline"], f["name"], f["staff_name"], f["reference"], f["date"])
		text = fmt.Sprintf("Hi %s, %s has been assigned to your booking %s.", f["name"], f["staff_name"], f["reference"])
	case TemplateEnquiryConfirmation:
		subject = "We received your enquiry"
		html = fmt.Sprintf(`
			<h2>Thanks for getting in touch</h2>
			<p>Hi %s,</p>
			<p>We received your enquiry%s and will get back to you within one business day.</p>
		`, f["name"], subjectSuffix(f["subject"]))
		text = fmt.Sprintf("Hi %s, we received your enquiry and will get back to you soon.", f["name"])
	default:
		subject = "OzClean update"
		html = "<p>Update from OzClean.</p>"
		text = "Update from OzClean."
	}
	return subject, html, text
}

func subjectSuffix(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf(" about <i>%s</i>", s)
}
