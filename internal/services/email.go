package services

import (
	"context"
	"fmt"
	"log/slog"

	"volunteerhub/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendPaymentAnnouncement sends the payment-request email using the
// "payment_announcement" template and the given data.
func (s *emailService) SendPaymentAnnouncement(ctx context.Context, data *domain.PaymentAnnouncementEmailData) error {
	if data == nil {
		return fmt.Errorf("payment announcement data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("payment_announcement", data)
	if err != nil {
		return fmt.Errorf("failed to render payment_announcement template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send payment announcement email: %w", err)
	}
	s.logger.InfoContext(ctx, "payment announcement email sent", "email", data.Email)
	return nil
}
