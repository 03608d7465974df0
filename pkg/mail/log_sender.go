package mail

import (
	"context"
	"log/slog"
)

// LogSender logs messages instead of delivering them. Used in development
// and as the fallback when no vendor endpoint is configured.
type LogSender struct {
	log *slog.Logger
}

var _ Sender = (*LogSender)(nil)

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("mail not delivered (log sender)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
