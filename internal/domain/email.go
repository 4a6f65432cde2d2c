package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// JoinReceiptEmailData holds data for the join confirmation email.
type JoinReceiptEmailData struct {
	Email      string
	TargetKind TargetKind
	TargetName string
	Amount     int64
	Currency   string
	Reference  string
}

// AmountDisplay formats the minor-unit amount as a decimal string.
func (d JoinReceiptEmailData) AmountDisplay() string {
	return formatMinor(d.Amount)
}

// ManagerDecisionEmailData holds data for the manager request decision email.
type ManagerDecisionEmailData struct {
	Email    string
	Name     string
	Approved bool
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendJoinReceipt(ctx context.Context, data *JoinReceiptEmailData) error
	SendManagerDecision(ctx context.Context, data *ManagerDecisionEmailData) error
}
