package mailer

import (
	"fmt"
	"net/smtp"
)

// Message is a rendered outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message. Implementations own their transport
// timeouts.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers messages over plain-auth SMTP.
type SMTPSender struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewSMTPSender(host, port, user, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     user,
	}
}

func (s *SMTPSender) Send(msg Message) error {
	auth := smtp.PlainAuth("", s.user, s.password, s.host)

	// Build message
	raw := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.from, msg.To, msg.Subject, msg.Body,
	))

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, auth, s.from, []string{msg.To}, raw)
}
