package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier defines the interface for sending account emails
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, token, firstName string) error
	SendPasswordResetEmail(ctx context.Context, email, token, firstName string) error
	SendWelcomeEmail(ctx context.Context, email, firstName string) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	frontendURL string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress, frontendURL string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		frontendURL: frontendURL,
		logger:      logger,
	}, nil
}

// SendVerificationEmail sends the account verification link to a new user
func (s *AWSSESEmailService) SendVerificationEmail(ctx context.Context, email, token, firstName string) error {
	verificationLink := fmt.Sprintf("%s/auth/verify-email?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 4px; }
        .content { padding: 20px 0; }
        .button { display: inline-block; background-color: #0066cc; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 20px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
        .warning { background-color: #fff3cd; padding: 10px; border-left: 4px solid #ffc107; margin: 10px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Verify Your Email Address</h1>
        </div>
        <div class="content">
            <p>Hi %s,</p>
            <p>Thank you for creating an account. To complete your registration, please verify your email address by clicking the link below:</p>
            <p><a href="%s" class="button">Verify Email Address</a></p>
            <p>Or copy and paste this link in your browser:<br>
            <code>%s</code></p>
            <div class="warning">
                <strong>Security Notice:</strong> This link will expire in 24 hours.
            </div>
            <p><strong>Didn't create this account?</strong><br>
            If you didn't sign up for this account, you can ignore this email. Your email address will not be verified.</p>
        </div>
        <div class="footer">
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`, firstName, verificationLink, verificationLink)

	textBody := fmt.Sprintf(`Verify Your Email Address

Hi %s,

Thank you for creating an account. To complete your registration, please verify your email address by clicking the link below:

%s

Security Notice: This link will expire in 24 hours.

Didn't create this account?
If you didn't sign up for this account, you can ignore this email. Your email address will not be verified.

This is an automated message. Please do not reply to this email.
`, firstName, verificationLink)

	return s.send(ctx, email, "Verify your email address", htmlBody, textBody)
}

// SendPasswordResetEmail sends a password reset link
func (s *AWSSESEmailService) SendPasswordResetEmail(ctx context.Context, email, token, firstName string) error {
	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 4px; }
        .content { padding: 20px 0; }
        .button { display: inline-block; background-color: #0066cc; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 20px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
        .warning { background-color: #fff3cd; padding: 10px; border-left: 4px solid #ffc107; margin: 10px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Reset Your Password</h1>
        </div>
        <div class="content">
            <p>Hi %s,</p>
            <p>We received a request to reset the password for your account. Click the link below to choose a new password:</p>
            <p><a href="%s" class="button">Reset Password</a></p>
            <p>Or copy and paste this link in your browser:<br>
            <code>%s</code></p>
            <div class="warning">
                <strong>Security Notice:</strong> This link will expire in 1 hour.
            </div>
            <p><strong>Didn't request this?</strong><br>
            If you didn't ask to reset your password, you can ignore this email. Your password will not change.</p>
        </div>
        <div class="footer">
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`, firstName, resetLink, resetLink)

	textBody := fmt.Sprintf(`Reset Your Password

Hi %s,

We received a request to reset the password for your account. Click the link below to choose a new password:

%s

Security Notice: This link will expire in 1 hour.

Didn't request this?
If you didn't ask to reset your password, you can ignore this email. Your password will not change.

This is an automated message. Please do not reply to this email.
`, firstName, resetLink)

	return s.send(ctx, email, "Reset your password", htmlBody, textBody)
}

// SendWelcomeEmail confirms a completed verification
func (s *AWSSESEmailService) SendWelcomeEmail(ctx context.Context, email, firstName string) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 4px; }
        .content { padding: 20px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome Aboard</h1>
        </div>
        <div class="content">
            <p>Hi %s,</p>
            <p>Your email address has been verified and your account is now active. You can sign in and start learning right away.</p>
        </div>
        <div class="footer">
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`, firstName)

	textBody := fmt.Sprintf(`Welcome Aboard

Hi %s,

Your email address has been verified and your account is now active. You can sign in and start learning right away.

This is an automated message. Please do not reply to this email.
`, firstName)

	return s.send(ctx, email, "Welcome! Your account is active", htmlBody, textBody)
}

func (s *AWSSESEmailService) send(ctx context.Context, email, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send email via SES",
			slog.String("email", email),
			slog.String("subject", subject),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		slog.String("email", email),
		slog.String("subject", subject),
		slog.String("message_id", *result.MessageId))

	return nil
}

// LogEmailService is a development fallback that writes outbound emails to
// the log instead of sending them. Used when no from-address is configured.
type LogEmailService struct {
	frontendURL string
	logger      *slog.Logger
}

func NewLogEmailService(frontendURL string, logger *slog.Logger) *LogEmailService {
	return &LogEmailService{frontendURL: frontendURL, logger: logger}
}

func (s *LogEmailService) SendVerificationEmail(ctx context.Context, email, token, firstName string) error {
	s.logger.Info("verification email (log only)",
		slog.String("email", email),
		slog.String("link", fmt.Sprintf("%s/auth/verify-email?token=%s", s.frontendURL, token)))
	return nil
}

func (s *LogEmailService) SendPasswordResetEmail(ctx context.Context, email, token, firstName string) error {
	s.logger.Info("password reset email (log only)",
		slog.String("email", email),
		slog.String("link", fmt.Sprintf("%s/auth/reset-password?token=%s", s.frontendURL, token)))
	return nil
}

func (s *LogEmailService) SendWelcomeEmail(ctx context.Context, email, firstName string) error {
	s.logger.Info("welcome email (log only)", slog.String("email", email))
	return nil
}
