package services

import (
	"context"
	"fmt"
	"net/smtp"

	"challengehub/internal/config"

	"go.uber.org/zap"
)

// emailService implements EmailService over SMTP. When no SMTP host is
// configured it logs the message instead of sending, which keeps local
// development working without a mail account.
type emailService struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) EmailService {
	if cfg.Host == "" {
		logger.Warn("SMTP not configured, emails will be logged only")
	}
	return &emailService{cfg: cfg, logger: logger}
}

// SendOTP delivers a verification code to the given address
func (s *emailService) SendOTP(ctx context.Context, to, name, otp string) error {
	subject := "Your verification code"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour verification code is %s. It expires in 10 minutes.\r\n\r\nIf you did not request this, you can ignore this email.\r\n",
		name, otp,
	)
	return s.send(ctx, to, subject, body)
}

func (s *emailService) send(ctx context.Context, to, subject, body string) error {
	if s.cfg.Host == "" {
		s.logger.Info("email suppressed, SMTP not configured",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.cfg.From, to, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
