package notify

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

// SMTPSender delivers mail through a relay with PLAIN auth.
type SMTPSender struct {
	addr string
	host string
	from string
	auth smtp.Auth
	now  func() time.Time
}

func NewSMTPSender(host, port, user, password, from string) *SMTPSender {
	s := &SMTPSender{
		addr: net.JoinHostPort(host, port),
		host: host,
		from: from,
		now:  time.Now,
	}
	if user != "" {
		s.auth = smtp.PlainAuth("", user, password, host)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}
	envelopeFrom, err := mail.ParseAddress(s.from)
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", s.from, err)
	}
	body := buildMessage(s.from, msg, s.now())

	// smtp.SendMail has no context support
	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(s.addr, s.auth, envelopeFrom.Address, msg.To, body)
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", strings.Join(msg.To, ","), err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from string, msg Message, now time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return b.Bytes()
}
