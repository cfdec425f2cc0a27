// Package notify delivers best-effort outbound email.
//
// Delivery never blocks or fails the caller: the Dispatcher sends in the
// background and only logs the outcome.
package notify

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oggyb/liftlink/internal/config"
)

// Message is a plain-text email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender when SMTP_HOST is configured and a
// logging sender otherwise.
func NewSender(cfg *config.Config, log *slog.Logger) Sender {
	if strings.TrimSpace(cfg.SMTP.Host) == "" {
		return NewLogSender(log)
	}
	return NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("email (not delivered, SMTP disabled)",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
	)
	return nil
}

const defaultSendTimeout = 15 * time.Second

// Dispatcher sends messages on background goroutines.
type Dispatcher struct {
	sender  Sender
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, log *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log, timeout: defaultSendTimeout}
}

// Dispatch queues msg and returns immediately. kind is only used for logging.
func (d *Dispatcher) Dispatch(kind string, msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		start := time.Now()
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Error("notification failed",
				"kind", kind,
				"to", strings.Join(msg.To, ","),
				"error", err,
			)
			return
		}
		d.log.Debug("notification sent",
			"kind", kind,
			"to", strings.Join(msg.To, ","),
			"duration", time.Since(start),
		)
	}()
}

// Wait blocks until every dispatched message finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
