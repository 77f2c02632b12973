package mail

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers through an authenticated SMTP relay via gomail. It
// backs both the sandbox transport (best-effort, fails fast where SMTP
// egress is blocked) and the legacy last-resort transport.
type SMTPSender struct {
	name   string
	dialer *gomail.Dialer
}

// NewSandboxSender builds the sandbox/test SMTP strategy (e.g. Mailtrap).
func NewSandboxSender(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{
		name:   "sandbox-smtp",
		dialer: gomail.NewDialer(host, port, username, password),
	}
}

// NewLegacySender builds the legacy authenticated SMTP strategy, typically
// used only in local and dev environments.
func NewLegacySender(host string, port int, username, password string) *SMTPSender {
	d := gomail.NewDialer(host, port, username, password)
	d.SSL = port == 465
	return &SMTPSender{name: "legacy-smtp", dialer: d}
}

func (s *SMTPSender) Name() string { return s.name }

func (s *SMTPSender) Send(m *Message) (string, error) {
	if s.dialer.Host == "" {
		return "", fmt.Errorf("smtp host not configured")
	}
	msg := toGomail(m)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return "", fmt.Errorf("smtp send failed: %v", err)
	}
	return messageID(msg), nil
}

func toGomail(m *Message) *gomail.Message {
	msg := gomail.NewMessage()
	// gomail does not generate a Message-ID on its own, and the pipeline
	// records one per delivery.
	msg.SetHeader("Message-ID", fmt.Sprintf("<%d@staffeye>", time.Now().UnixNano()))
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To...)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	for _, a := range m.Attachments {
		a := a
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(a.Content)
			return err
		}))
	}
	return msg
}

func messageID(msg *gomail.Message) string {
	if ids := msg.GetHeader("Message-ID"); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
