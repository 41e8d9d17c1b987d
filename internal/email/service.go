package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"

	"github.com/quangdng/go-shop-api/internal/logging"
)

// Service delivers account emails over SMTP. Callers treat delivery as
// fire-and-forget; failures are logged and reported but never retried here.
type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
	frontendURL  string
}

func NewService(smtpHost, smtpPort, smtpUser, smtpPassword, frontendURL string) *Service {
	return &Service{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    smtpUser,
		frontendURL:  frontendURL,
	}
}

// SendActivationEmail sends the account activation link to a new user.
// This method is designed to be called in a goroutine.
func (s *Service) SendActivationEmail(ctx context.Context, toEmail, token string) error {
	logger := logging.GetLoggerFromContext(ctx)

	link := fmt.Sprintf("%s/activate?email=%s&token=%s",
		s.frontendURL, url.QueryEscape(toEmail), url.QueryEscape(token))

	body, err := renderEmail(activationTemplate, link)
	if err != nil {
		logger.Error("failed to render activation email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, "Activate your account", body); err != nil {
		logger.Error("failed to send activation email", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("activation email sent", "email", toEmail)
	return nil
}

// SendPasswordResetEmail sends a password reset link to the user.
// This method is designed to be called in a goroutine.
func (s *Service) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	logger := logging.GetLoggerFromContext(ctx)

	link := fmt.Sprintf("%s/reset-password?email=%s&token=%s",
		s.frontendURL, url.QueryEscape(toEmail), url.QueryEscape(token))

	body, err := renderEmail(passwordResetTemplate, link)
	if err != nil {
		logger.Error("failed to render password reset email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, "Reset your password", body); err != nil {
		logger.Error("failed to send password reset email", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("password reset email sent", "email", toEmail)
	return nil
}

func (s *Service) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromEmail, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg)
}

func renderEmail(tmpl *template.Template, link string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Link string }{Link: link}

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

var activationTemplate = template.Must(template.New("activation").Parse(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
    <h1 style="color: #16A34A;">Welcome to the shop!</h1>
    <p>Thanks for signing up. Click the button below to activate your account.</p>
    <p>
        <a href="{{.Link}}" style="display: inline-block; background-color: #16A34A; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Activate Account</a>
    </p>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #16A34A;">{{.Link}}</p>
    <p style="margin-top: 30px; font-size: 12px; color: #666;">If you didn't create an account, you can safely ignore this email.</p>
</body>
</html>
`))

var passwordResetTemplate = template.Must(template.New("passwordReset").Parse(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
    <h1 style="color: #16A34A;">Password reset</h1>
    <p>You requested to reset your password. Click the button below to choose a new one.</p>
    <p>
        <a href="{{.Link}}" style="display: inline-block; background-color: #16A34A; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Reset Password</a>
    </p>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #16A34A;">{{.Link}}</p>
    <p style="margin-top: 30px; font-size: 12px; color: #666;">The link expires after a few hours. If you didn't request a reset, you can safely ignore this email and your password will remain unchanged.</p>
</body>
</html>
`))
