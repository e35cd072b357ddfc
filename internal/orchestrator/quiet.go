package orchestrator

import (
	"fmt"
	"time"

	"github.com/cbwatch/thundercloud-alerts/internal/config"
)

// QuietWindow is the local-time window during which detection, fetching, and
// dispatch are suppressed. The window may wrap midnight (20:00-08:00).
// Start is inclusive, end exclusive.
type QuietWindow struct {
	enabled  bool
	startMin int
	endMin   int
	loc      *time.Location
}

func NewQuietWindow(cfg config.QuietHoursConfig) (QuietWindow, error) {
	start, err := config.ParseClock(cfg.Start)
	if err != nil {
		return QuietWindow{}, fmt.Errorf("invalid quiet hours start: %w", err)
	}
	end, err := config.ParseClock(cfg.End)
	if err != nil {
		return QuietWindow{}, fmt.Errorf("invalid quiet hours end: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return QuietWindow{}, fmt.Errorf("invalid quiet hours timezone: %w", err)
	}
	return QuietWindow{
		enabled:  cfg.Enabled,
		startMin: start,
		endMin:   end,
		loc:      loc,
	}, nil
}

func (w QuietWindow) Contains(t time.Time) bool {
	if !w.enabled {
		return false
	}
	local := t.In(w.loc)
	minutes := local.Hour()*60 + local.Minute()

	if w.startMin <= w.endMin {
		return minutes >= w.startMin && minutes < w.endMin
	}
	// Wraps midnight.
	return minutes >= w.startMin || minutes < w.endMin
}
