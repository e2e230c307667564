package service

import (
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer delivers best-effort email. Callers must treat a delivery failure
// as non-fatal: a registration succeeds the moment its code is stored,
// whether or not the mail went out.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// SMTPMailer sends through the SMTP server from the smtp.* config block.
type SMTPMailer struct{}

// NewMailer returns an SMTP mailer, or nil when no smtp.host is configured.
// A nil Mailer simply means codes are never delivered by email.
func NewMailer() Mailer {
	if viper.GetString("smtp.host") == "" {
		return nil
	}

	return &SMTPMailer{}
}

func (m *SMTPMailer) Send(to, subject, html, text string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", viper.GetString("smtp.from"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	d := gomail.NewDialer(
		viper.GetString("smtp.host"),
		viper.GetInt("smtp.port"),
		viper.GetString("smtp.user"),
		viper.GetString("smtp.password"),
	)

	return d.DialAndSend(msg)
}
