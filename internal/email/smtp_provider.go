package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender - то, что умеет gomail.Dialer; подменяется в тестах
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPProvider отправляет письма через gomail
type SMTPProvider struct {
	config *SMTPConfig
	sender Sender
}

func NewSMTPProvider(config *SMTPConfig) (*SMTPProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return &SMTPProvider{config: config, sender: dialer}, nil
}

func (p *SMTPProvider) SendIntegrityAlert(ctx context.Context, alert *IntegrityAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if alert.To == "" {
		return fmt.Errorf("alert recipient is empty")
	}

	subject, body, err := renderIntegrityAlert(alert)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", alert.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	// gomail не принимает context: ждем отправку не дольше дедлайна ctx
	done := make(chan error, 1)
	go func() { done <- p.sender.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send integrity alert: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("integrity alert not sent: %w", ctx.Err())
	}
}
