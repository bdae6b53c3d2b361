package config

import (
	"os"
	"strconv"
	"sync"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Sender   string
}

var (
	smtpConfig *SMTPConfig
	smtpOnce   sync.Once
)

func LoadSMTPConfig() *SMTPConfig {
	smtpOnce.Do(func() {
		port := 465
		if v := os.Getenv("SMTP_PORT"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				port = parsed
			}
		}
		smtpConfig = &SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     port,
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			Sender:   os.Getenv("SMTP_SENDER"),
		}
	})
	return smtpConfig
}
