// Package templates provides email message content builders
package templates

import (
	"bytes"
	"html/template"
	"log"
)

// TwoFactorEmailProps carries the data for the verification code email.
type TwoFactorEmailProps struct {
	Name              string
	Code              string
	ExpirationMinutes int
}

var twoFactorTemplate = template.Must(template.New("twoFactorEmail").Parse(`
<h2 style="font-family: Helvetica, sans-serif; font-size: 20px; margin: 0; margin-bottom: 16px;">Your verification code</h2>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; margin-bottom: 16px;">Hi {{.Name}},</p>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; margin-bottom: 16px;">Use this code to finish signing in:</p>
<p style="font-family: Helvetica, sans-serif; font-size: 28px; font-weight: bold; letter-spacing: 4px; margin: 0; margin-bottom: 16px;">{{.Code}}</p>
<p style="font-family: Helvetica, sans-serif; font-size: 14px; color: #9a9ea6; margin: 0;">This code expires in {{.ExpirationMinutes}} minutes. If you did not try to sign in, you can ignore this email.</p>`))

// GetTwoFactorEmailContent renders the verification code email body.
func GetTwoFactorEmailContent(props TwoFactorEmailProps) string {
	if props.Name == "" {
		props.Name = "there"
	}
	var buf bytes.Buffer
	if err := twoFactorTemplate.Execute(&buf, props); err != nil {
		log.Printf("Error executing two-factor email template: %v", err)
		return "<p>Your verification code could not be rendered.</p>"
	}
	return buf.String()
}

// LeadNotificationEmailProps carries the data for the new-lead alert email.
type LeadNotificationEmailProps struct {
	LeadName       string
	LeadEmail      string
	CalculatorType string
	Score          int
}

var leadNotificationTemplate = template.Must(template.New("leadNotificationEmail").Parse(`
<h2 style="font-family: Helvetica, sans-serif; font-size: 20px; margin: 0; margin-bottom: 16px;">New qualified lead</h2>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; margin-bottom: 16px;"><strong>{{.LeadName}}</strong> ({{.LeadEmail}}) just scored <strong>{{.Score}}</strong> on the {{.CalculatorType}} calculator.</p>
<p style="font-family: Helvetica, sans-serif; font-size: 14px; color: #9a9ea6; margin: 0;">High-scoring leads convert best when contacted within a day.</p>`))

// GetLeadNotificationEmailContent renders the new-lead alert email body.
func GetLeadNotificationEmailContent(props LeadNotificationEmailProps) string {
	var buf bytes.Buffer
	if err := leadNotificationTemplate.Execute(&buf, props); err != nil {
		log.Printf("Error executing lead notification email template: %v", err)
		return "<p>A new lead was captured.</p>"
	}
	return buf.String()
}
