package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cbwatch/thundercloud-alerts/internal/models"
	"github.com/cbwatch/thundercloud-alerts/internal/observability"
)

// Dispatcher turns a set of likely directions into one push per observer.
// Delivery failures are logged, not retried; the next detection cycle
// re-evaluates and re-sends if conditions persist.
type Dispatcher struct {
	sender  Sender
	clock   clockwork.Clock
	metrics *observability.Metrics
}

func NewDispatcher(sender Sender, clock clockwork.Clock, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		clock:   clock,
		metrics: metrics,
	}
}

// Notify sends one push naming the likely directions. An empty direction list
// sends nothing; there is no "all clear" notification.
func (d *Dispatcher) Notify(ctx context.Context, token string, directions []models.Direction) error {
	if len(directions) == 0 {
		return nil
	}

	names := make([]string, len(directions))
	for i, dir := range directions {
		names[i] = string(dir)
	}
	joined := strings.Join(names, ", ")

	p := Push{
		Token: token,
		Title: "Thunderclouds forming nearby",
		Body:  fmt.Sprintf("Cumulonimbus development detected to the %s. Look up!", joined),
		Data: map[string]string{
			"type":       "thunder_cloud",
			"directions": strings.Join(names, ","),
			"timestamp":  d.clock.Now().UTC().Format(time.RFC3339),
		},
	}

	if err := d.sender.Send(ctx, p); err != nil {
		d.metrics.NotificationFailures.Inc()
		return fmt.Errorf("error dispatching push: %w", err)
	}
	d.metrics.NotificationsSent.Inc()
	return nil
}
