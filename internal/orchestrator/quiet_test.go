package orchestrator

import (
	"testing"
	"time"

	"github.com/cbwatch/thundercloud-alerts/internal/config"
)

func mustWindow(t *testing.T, cfg config.QuietHoursConfig) QuietWindow {
	t.Helper()
	w, err := NewQuietWindow(cfg)
	if err != nil {
		t.Fatalf("NewQuietWindow failed: %v", err)
	}
	return w
}

func TestQuietWindow_WrapsMidnight(t *testing.T) {
	w := mustWindow(t, config.QuietHoursConfig{
		Enabled: true, Start: "20:00", End: "08:00", Timezone: "UTC",
	})

	tests := []struct {
		clock string
		quiet bool
	}{
		{"19:59", false},
		{"20:00", true}, // start inclusive
		{"23:30", true},
		{"00:00", true},
		{"07:59", true},
		{"08:00", false}, // end exclusive
		{"12:00", false},
	}

	for _, tt := range tests {
		ts, err := time.Parse("2006-01-02 15:04", "2026-08-25 "+tt.clock)
		if err != nil {
			t.Fatalf("bad test time: %v", err)
		}
		if got := w.Contains(ts); got != tt.quiet {
			t.Errorf("Contains(%s) = %v, want %v", tt.clock, got, tt.quiet)
		}
	}
}

func TestQuietWindow_SameDayWindow(t *testing.T) {
	w := mustWindow(t, config.QuietHoursConfig{
		Enabled: true, Start: "13:00", End: "15:00", Timezone: "UTC",
	})

	tests := []struct {
		clock string
		quiet bool
	}{
		{"12:59", false},
		{"13:00", true},
		{"14:59", true},
		{"15:00", false},
	}
	for _, tt := range tests {
		ts, _ := time.Parse("2006-01-02 15:04", "2026-08-25 "+tt.clock)
		if got := w.Contains(ts); got != tt.quiet {
			t.Errorf("Contains(%s) = %v, want %v", tt.clock, got, tt.quiet)
		}
	}
}

func TestQuietWindow_Disabled(t *testing.T) {
	w := mustWindow(t, config.QuietHoursConfig{
		Enabled: false, Start: "20:00", End: "08:00", Timezone: "UTC",
	})

	ts, _ := time.Parse("2006-01-02 15:04", "2026-08-25 23:00")
	if w.Contains(ts) {
		t.Error("disabled window must never be quiet")
	}
}

func TestQuietWindow_HonorsTimezone(t *testing.T) {
	w := mustWindow(t, config.QuietHoursConfig{
		Enabled: true, Start: "20:00", End: "08:00", Timezone: "Asia/Tokyo",
	})

	// 12:00 UTC is 21:00 in Tokyo: quiet.
	ts, _ := time.Parse("2006-01-02 15:04", "2026-08-25 12:00")
	if !w.Contains(ts) {
		t.Error("12:00 UTC should be inside the Tokyo quiet window")
	}

	// 02:00 UTC is 11:00 in Tokyo: active.
	ts, _ = time.Parse("2006-01-02 15:04", "2026-08-25 02:00")
	if w.Contains(ts) {
		t.Error("02:00 UTC should be outside the Tokyo quiet window")
	}
}

func TestQuietWindow_InvalidConfig(t *testing.T) {
	if _, err := NewQuietWindow(config.QuietHoursConfig{Enabled: true, Start: "25:00", End: "08:00", Timezone: "UTC"}); err == nil {
		t.Error("expected error for invalid start time")
	}
	if _, err := NewQuietWindow(config.QuietHoursConfig{Enabled: true, Start: "20:00", End: "08:00", Timezone: "Atlantis/Nowhere"}); err == nil {
		t.Error("expected error for invalid timezone")
	}
}
