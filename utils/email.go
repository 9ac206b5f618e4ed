// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService handles sending emails using SendGrid
type EmailService struct {
	apiKey string
	sender string
}

// NewEmailService initializes and returns a new EmailService instance. The
// service is inert when SENDGRID_API_KEY is not configured.
func NewEmailService() *EmailService {
	return &EmailService{
		apiKey: os.Getenv("SENDGRID_API_KEY"),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// Enabled reports whether an API key is configured.
func (es *EmailService) Enabled() bool {
	return es.apiKey != ""
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	from := mail.NewEmail("Shop", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	client := sendgrid.NewSendClient(es.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: status %d", response.StatusCode)
	}
	return nil
}

// SendReceiptEmail sends an order receipt after checkout confirmation
func (es *EmailService) SendReceiptEmail(toEmail string, lines int, total int) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order of %d item(s) has been placed successfully.<br><br>Total Amount: <strong>%d</strong><br><br>Thank you for shopping with us!",
		lines,
		total,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
