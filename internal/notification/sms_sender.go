package notification

import (
	"context"
	"log/slog"
)

// dummySMSSender logs the message instead of delivering it. A real gateway
// integration slots in behind the same interface.
type dummySMSSender struct {
	log *slog.Logger
}

// NewDummySMSSender creates a new logging SMS sender.
func NewDummySMSSender(log *slog.Logger) smsSender {
	return &dummySMSSender{log: log}
}

func (s *dummySMSSender) Send(ctx context.Context, to, message string) error {
	s.log.Info("DUMMY SEND: SMS would be sent", "to", to, "message", message)
	return nil
}
