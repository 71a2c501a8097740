package service

import (
	"context"
	"fmt"

	"guessgame-server/internal/config"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// EmailService sends transactional mail. Callers treat send failures as
// non-fatal: a user can always re-request a verification or reset mail.
type EmailService interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
	SendWelcomeEmail(ctx context.Context, to, username string) error
	SendContactEmail(ctx context.Context, fromName, fromEmail, subject, message string) error
}

type emailServiceImpl struct {
	client          *mail.Client
	from            string
	frontendBaseURL string
	contactTo       string
	logger          *zap.Logger
}

var _ EmailService = (*emailServiceImpl)(nil)

// NewEmailService creates an SMTP-backed email service.
func NewEmailService(cfg *config.Config, logger *zap.Logger) (EmailService, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating SMTP client: %w", err)
	}

	return &emailServiceImpl{
		client:          client,
		from:            cfg.SMTPFrom,
		frontendBaseURL: cfg.FrontendBaseURL,
		contactTo:       cfg.ContactRecipient,
		logger:          logger.Named("EmailService"),
	}, nil
}

func (s *emailServiceImpl) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("error setting sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("error setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("Failed to send email",
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("error sending email: %w", err)
	}
	s.logger.Info("Email sent", zap.String("subject", subject))
	return nil
}

func (s *emailServiceImpl) SendVerificationEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendBaseURL, token)
	body := fmt.Sprintf(
		"Welcome to the guessing game!\n\n"+
			"Please confirm your email address by opening the link below:\n\n%s\n\n"+
			"The link is valid for 24 hours. If you did not register, ignore this message.\n",
		link)
	return s.send(ctx, to, "Confirm your email address", body)
}

func (s *emailServiceImpl) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendBaseURL, token)
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below to choose a new password:\n\n%s\n\n"+
			"The link is valid for 60 minutes. If you did not request a reset, ignore this message.\n",
		link)
	return s.send(ctx, to, "Reset your password", body)
}

func (s *emailServiceImpl) SendWelcomeEmail(ctx context.Context, to, username string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your email address is confirmed and your account is ready.\n"+
			"Start a game and see how few questions you need to guess the character!\n",
		username)
	return s.send(ctx, to, "Welcome aboard", body)
}

func (s *emailServiceImpl) SendContactEmail(ctx context.Context, fromName, fromEmail, subject, message string) error {
	body := fmt.Sprintf("From: %s <%s>\n\n%s\n", fromName, fromEmail, message)
	return s.send(ctx, s.contactTo, "[Contact] "+subject, body)
}
