package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// PaymentAnnouncementEmailData holds data for the payment-request email sent
// to event participants when a payment announcement is published.
type PaymentAnnouncementEmailData struct {
	Email      string
	EventTitle string
	Title      string
	Content    string
	Amount     float64
	Purpose    string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendPaymentAnnouncement(ctx context.Context, data *PaymentAnnouncementEmailData) error
}
