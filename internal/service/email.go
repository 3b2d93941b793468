package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) send(emailType, to, subject, body string, logArgs ...any) error {
	if s.isDev {
		args := append([]any{"type", emailType, "to", to, "subject", subject}, logArgs...)
		slog.Info("email sent (dev mode)", args...)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", emailType, "to", to)
	}
	return err
}

func (s *EmailService) SendForgotPasswordEmail(email, token, name string) error {
	resetURL := fmt.Sprintf("%s/auth/redefinir-senha/%s", s.appURL, token)
	subject, body := forgotPasswordEmailTemplate(resetURL, s.appName)
	return s.send("forgot_password", email, subject, body, "url", resetURL)
}

func (s *EmailService) SendMagicLinkEmail(email, token, name string) error {
	magicURL := fmt.Sprintf("%s/auth/link-magico/%s", s.appURL, token)
	subject, body := magicLinkEmailTemplate(magicURL, s.appName)
	return s.send("magic_link", email, subject, body, "url", magicURL)
}

func (s *EmailService) SendWelcomeEmail(email, name string) error {
	homeURL := fmt.Sprintf("%s/inicio", s.appURL)
	subject, body := welcomeEmailTemplate(name, homeURL, s.appName)
	return s.send("welcome", email, subject, body)
}

func (s *EmailService) SendEmailChangeVerification(newEmail, token, userName string) error {
	verifyURL := fmt.Sprintf("%s/auth/verificar-email/%s", s.appURL, token)
	subject, body := emailChangeVerificationTemplate(userName, verifyURL, s.appName)
	return s.send("email_change_verification", newEmail, subject, body, "url", verifyURL)
}

func (s *EmailService) SendAccountDeletedEmail(email, name string) error {
	subject, body := accountDeletedEmailTemplate(name, s.appName)
	return s.send("account_deleted", email, subject, body)
}
