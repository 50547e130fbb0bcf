package notifications

import (
	"fmt"
	"strconv"

	"zoe_store_backend/pkg/utils"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP settings for outbound mail.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ConfigFromEnv builds an EmailConfig from environment variables.
func ConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(utils.Getenv("SMTP_PORT", "587"))
	if err != nil {
		port = 587
	}
	return EmailConfig{
		Host:     utils.Getenv("SMTP_HOST", "localhost"),
		Port:     port,
		Username: utils.Getenv("SMTP_USER", ""),
		Password: utils.Getenv("SMTP_PASSWORD", ""),
		From:     utils.Getenv("MAIL_FROM", "no-reply@zoestore.local"),
	}
}

// EmailNotifier sends transactional mail over SMTP.
type EmailNotifier struct {
	cfg    EmailConfig
	dialer *gomail.Dialer
}

// NewEmailNotifier creates an EmailNotifier with the given configuration.
func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

const welcomeBodyTemplate = `<html>
  <body>
    <h1>Welcome to Zoe Fashion Store!</h1>
    <p>Hello %s,</p>
    <p>Your account is ready. Zoe Fashion Store is your store management
    app for clients, purchases and more.</p>
    <p>With love,<br>The Zoe Fashion Store team</p>
  </body>
</html>`

// SendWelcomeEmail sends the post-signup greeting to a new user.
func (n *EmailNotifier) SendWelcomeEmail(email, username string) error {
	if email == "" || username == "" {
		return fmt.Errorf("email and username are required")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to Zoe Fashion Store - your store management app!")
	m.SetBody("text/html", fmt.Sprintf(welcomeBodyTemplate, username))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending welcome email: %w", err)
	}
	return nil
}
