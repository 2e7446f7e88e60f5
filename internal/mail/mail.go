// Package mail is the narrow seam to outbound email. The core only ever
// calls Send; delivery details stay behind this interface.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type Email struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(e Email) error
}

// SMTPSender delivers over plain SMTP with optional auth.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (s *SMTPSender) Send(e Email) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(e.HTML)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	return smtp.SendMail(addr, auth, s.From, []string{e.To}, []byte(b.String()))
}

// LogSender is used when SMTP is not configured (local development); it logs
// the subject and recipient, never the body.
type LogSender struct{}

func (LogSender) Send(e Email) error {
	log.Printf("mail (not sent): to=%s subject=%q", e.To, e.Subject)
	return nil
}
