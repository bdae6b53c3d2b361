package service

import (
	"fmt"

	"github.com/fadilmartias/career-compass/internal/config"
	"github.com/fadilmartias/career-compass/internal/logger"
	"gopkg.in/gomail.v2"
)

type MailServiceInterface interface {
	SendWelcome(email, name string)
	SendResultReady(email, name, assessmentID string)
}

type MailService struct {
	dialer *gomail.Dialer
	sender string
}

func NewMailService() *MailService {
	cfg := config.LoadSMTPConfig()
	return &MailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		sender: cfg.Sender,
	}
}

func (s *MailService) SendWelcome(email, name string) {
	body := fmt.Sprintf("Hi %s,\n\nYour account is ready. Start your first career assessment whenever you like.", name)
	s.send(email, "Welcome to Career Compass", body)
}

func (s *MailService) SendResultReady(email, name, assessmentID string) {
	body := fmt.Sprintf("Hi %s,\n\nYour assessment result is ready. View it at %s/assessment/%s.",
		name, config.LoadAppConfig().BaseURL, assessmentID)
	s.send(email, "Your assessment result is ready", body)
}

// send delivers the message and only logs failures; mail is best-effort and
// must never fail a request.
func (s *MailService) send(to, subject, body string) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	log := logger.Get()
	if err := s.dialer.DialAndSend(m); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")
		return
	}
	log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
}
