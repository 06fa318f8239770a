// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"
	"github.com/sellermetrics/leadstack-go/internal/domain/leads"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/email/templates"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendTwoFactorCodeEmail(toEmail, name, code string) error
	SendLeadNotificationEmail(toEmail string, lead *leads.Lead) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@sellermetrics.app" // Default from address
	}

	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "LeadStack" // Default from name
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendTwoFactorCodeEmail composes and sends a sign-in verification code.
func (c *ResendClient) SendTwoFactorCodeEmail(toEmail, name, code string) error {
	subject := "Your LeadStack verification code"

	content := templates.GetTwoFactorEmailContent(templates.TwoFactorEmailProps{
		Name:              name,
		Code:              code,
		ExpirationMinutes: int(config.TwoFactorCodeTTL.Minutes()),
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: "Your verification code",
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send verification code via Resend: %w", err)
	}

	return nil
}

// SendLeadNotificationEmail alerts the sales inbox about a freshly captured lead.
func (c *ResendClient) SendLeadNotificationEmail(toEmail string, lead *leads.Lead) error {
	subject := fmt.Sprintf("New lead: %s scored %d", lead.Name, lead.Score)

	content := templates.GetLeadNotificationEmailContent(templates.LeadNotificationEmailProps{
		LeadName:       lead.Name,
		LeadEmail:      lead.Email,
		CalculatorType: lead.CalculatorType,
		Score:          lead.Score,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: "A new qualified lead just came in",
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send lead notification via Resend: %w", err)
	}

	return nil
}
