package notify

import "context"

// Push is one outbound notification.
type Push struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a push message. FCMSender is the production
// implementation; LogSender is used when no credentials are configured.
type Sender interface {
	Send(ctx context.Context, p Push) error
}
