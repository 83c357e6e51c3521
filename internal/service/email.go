package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) send(to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRentalStartedNotification(ctx context.Context, lenderEmail, renterName, assetName string) error {
	body := fmt.Sprintf("Hello,\n\n%s has rented your %s. The rental fee and security deposit are held in escrow until the item is returned.\n\nThe Idle2Earn Team", renterName, assetName)
	return s.send(lenderEmail, fmt.Sprintf("Your %s has been rented", assetName), body)
}

func (s *emailService) SendRentalEndedNotification(ctx context.Context, email, role, assetName string, amountCents int64) error {
	body := fmt.Sprintf("Hello,\n\nThe rental of %s has been settled.", assetName)
	if amountCents > 0 {
		body += fmt.Sprintf(" %d cents have been credited to your balance.", amountCents)
	}
	body += "\n\nThe Idle2Earn Team"
	return s.send(email, fmt.Sprintf("Rental settled - %s", assetName), body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, renterEmail, assetName string, daysLate int64) error {
	body := fmt.Sprintf("Hello,\n\nYour rental of %s is past its agreed end date (%d full day(s) late). Late fees accrue daily and are deducted from your security deposit when the rental is closed. Please return the item as soon as possible.\n\nThe Idle2Earn Team", assetName, daysLate)
	return s.send(renterEmail, fmt.Sprintf("Overdue rental - %s", assetName), body)
}
