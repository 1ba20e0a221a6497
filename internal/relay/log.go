package relay

import (
	"context"

	"go.uber.org/zap"
)

// Log acknowledges every message without delivering it. Used in development.
type Log struct {
	log *zap.Logger
}

// NewLog returns a relay that only logs.
func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Name() string { return "log" }

func (l *Log) Send(_ context.Context, msg Message) (*Ack, error) {
	l.log.Info("contact message (log relay)",
		zap.String("from_name", msg.FromName),
		zap.Int("body_bytes", len(msg.Body)),
	)
	return &Ack{Provider: l.Name(), Text: "logged"}, nil
}
