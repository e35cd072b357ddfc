package notify

import (
	"context"
	"log/slog"
)

// LogSender logs pushes instead of delivering them. Used in local runs
// without Firebase credentials.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, p Push) error {
	slog.Info("push (dry run)", "token", p.Token, "title", p.Title, "body", p.Body, "data", p.Data)
	return nil
}
