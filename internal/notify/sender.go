// Package notify delivers kudo notifications to recipients. It
// supports a log-only development mode and an SMTP production mode.
package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strconv"

	"kudos/internal/config"
)

// Sender delivers a notification for a kudo event
type Sender interface {
	SendKudoEvent(event KudoEvent) error
}

// Config holds notification delivery configuration
type Config struct {
	Mode     string // "log" or "smtp"
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// NewConfig creates delivery configuration from environment variables
func NewConfig() *Config {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	return &Config{
		Mode:     config.GetEnvOrDefault("NOTIFY_MODE", "log"),
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     config.GetEnvOrDefault("SMTP_FROM", "noreply@example.com"),
		FromName: config.GetEnvOrDefault("SMTP_FROM_NAME", "Kudos"),
	}
}

// NewSender creates a sender based on configuration
func NewSender(cfg *Config) Sender {
	if cfg.Mode == "smtp" {
		return &smtpSender{config: cfg}
	}
	return &logSender{}
}

// logSender logs notifications to the console (development mode)
type logSender struct{}

func (s *logSender) SendKudoEvent(event KudoEvent) error {
	switch event.EventType {
	case EventTypeKudoReceived:
		log.Printf("[DEV] Notification for %s: %s sent you kudos: %q",
			event.RecipientEmail, event.SenderName, event.Preview)
		return nil
	default:
		log.Printf("[DEV] Notification for %s: type=%s", event.RecipientEmail, event.EventType)
		return nil
	}
}

// smtpSender sends notification emails via SMTP (production mode)
type smtpSender struct {
	config *Config
}

func (s *smtpSender) SendKudoEvent(event KudoEvent) error {
	switch event.EventType {
	case EventTypeKudoReceived:
		return s.sendKudoReceived(event)
	default:
		return fmt.Errorf("unsupported notification type: %s", event.EventType)
	}
}

func (s *smtpSender) sendKudoReceived(event KudoEvent) error {
	subject := fmt.Sprintf("%s sent you kudos!", event.SenderName)
	body := s.buildKudoBody(event)

	message := fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From)
	message += fmt.Sprintf("To: %s\r\n", event.RecipientEmail)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/html; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, auth, s.config.From, []string{event.RecipientEmail}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	log.Printf("Kudo notification sent to %s via SMTP", event.RecipientEmail)
	return nil
}

func (s *smtpSender) buildKudoBody(event KudoEvent) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>You received kudos</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
        <h1 style="color: white; margin: 0;">You received kudos!</h1>
    </div>

    <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
        <p style="font-size: 16px;">Hi %s,</p>

        <p style="font-size: 16px;"><strong>%s</strong> sent you kudos:</p>

        <div style="background: white; border: 2px solid #667eea; border-radius: 8px; padding: 20px; margin: 20px 0;">
            <span style="font-size: 18px; color: #333;">%s</span>
        </div>

        <p style="font-size: 14px; color: #666;">
            Log in to see the full message and send some kudos back.
        </p>

        <hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">

        <p style="font-size: 12px; color: #999; text-align: center;">
            This is an automated message, please do not reply to this email.
        </p>
    </div>
</body>
</html>
`, event.RecipientName, event.SenderName, event.Preview)
}
