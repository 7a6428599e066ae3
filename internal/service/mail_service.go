package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ManvithReddyyy/vinnu-app/internal/config"
	"github.com/ManvithReddyyy/vinnu-app/pkg/logger"

	"go.uber.org/zap"
)

// Mailer sends notification email. Callers treat delivery as best effort:
// a failed send is logged and never fails the request that triggered it.
type Mailer interface {
	Send(to, subject, htmlBody, textBody string) error
}

// SMTPMailer delivers through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody, textBody string) error {
	boundary := "vinnu-mail-boundary"

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(textBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String()))
}

// LogMailer writes mail to the log instead of the wire. Used in development
// and tests where no relay is configured.
type LogMailer struct{}

func (LogMailer) Send(to, subject, _, textBody string) error {
	logger.Log.Info("mail (log only)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", textBody))
	return nil
}

// NewMailer picks the SMTP mailer when a host is configured, the log mailer
// otherwise.
func NewMailer(cfg *config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// sendAsync fires a mail without blocking the caller. Failures are logged.
func sendAsync(m Mailer, to, subject, htmlBody, textBody string) {
	go func() {
		if err := m.Send(to, subject, htmlBody, textBody); err != nil {
			logger.Log.Warn("mail delivery failed",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err))
		}
	}()
}
