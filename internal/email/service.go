package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail.
type Sender interface {
	SendStaffInvite(to, name, clinicName, role string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg Config) Sender {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendStaffInvite(to, name, clinicName, role string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("You have been added to %s", clinicName))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYou have been added to %s as %s. Log in to get started.\n",
		name, clinicName, role,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}
	return nil
}
