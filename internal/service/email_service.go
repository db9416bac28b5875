package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service whose send methods are no-ops.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendPasswordReset sends a password reset email with a reset link
func (s *EmailService) SendPasswordReset(ctx context.Context, toEmail, toName, resetToken string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): password reset to %s", toEmail)
		return nil
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.appBaseURL, resetToken)

	subject := "Reset your StudyHall password"
	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your StudyHall password.

Click the link below to reset it:
%s

This link will expire in 1 hour.

If you didn't request a password reset, you can safely ignore this email.
`, toName, resetLink)
	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset your StudyHall password.</p>
<p><a href="%s">Reset your password</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request a password reset, you can safely ignore this email.</p>
`, toName, resetLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendShareInvitation sends a repository invite with its code
func (s *EmailService) SendShareInvitation(ctx context.Context, toEmail, repositoryName, inviteCode string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): share invite to %s", toEmail)
		return nil
	}

	acceptLink := fmt.Sprintf("%s/shares/accept?code=%s", s.appBaseURL, inviteCode)

	subject := fmt.Sprintf("You've been invited to study %q on StudyHall", repositoryName)
	textBody := fmt.Sprintf(`Hi,

You've been invited to study %q on StudyHall.

Your invite code: %s

Accept the invite here:
%s
`, repositoryName, inviteCode, acceptLink)
	htmlBody := fmt.Sprintf(`<p>Hi,</p>
<p>You've been invited to study <strong>%s</strong> on StudyHall.</p>
<p>Your invite code: <code>%s</code></p>
<p><a href="%s">Accept the invite</a></p>
`, repositoryName, inviteCode, acceptLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendTasksReady tells a user their generated tasks are available
func (s *EmailService) SendTasksReady(ctx context.Context, toEmail, toName, documentName string, taskCount int) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): tasks ready to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Your study tasks for %q are ready", documentName)
	textBody := fmt.Sprintf(`Hi %s,

Task generation for %q has finished. %d tasks are ready to study.

%s
`, toName, documentName, taskCount, s.appBaseURL)
	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>Task generation for <strong>%s</strong> has finished. %d tasks are ready to study.</p>
<p><a href="%s">Start studying</a></p>
`, toName, documentName, taskCount, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
