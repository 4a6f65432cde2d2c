package services

import (
	"context"
	"fmt"
	"log/slog"

	"clubhub/internal/domain"
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

// SendJoinReceipt sends the "join_receipt" template after a paid join.
func (s *emailService) SendJoinReceipt(ctx context.Context, data *domain.JoinReceiptEmailData) error {
	if data == nil {
		return fmt.Errorf("join receipt data is nil")
	}
	if err := s.send(ctx, "join_receipt", data.Email, data); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "join receipt sent", "to", data.Email, "reference", data.Reference)
	return nil
}

// SendManagerDecision sends the "manager_decision" template.
func (s *emailService) SendManagerDecision(ctx context.Context, data *domain.ManagerDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("manager decision data is nil")
	}
	if err := s.send(ctx, "manager_decision", data.Email, data); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "manager decision sent", "to", data.Email, "approved", data.Approved)
	return nil
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	return nil
}
