package service

import (
	"fmt"
	"time"

	"stock-signal-pipeline/internal/notifier/config"
)

// Verdict is the suppression decision for one delivery attempt.
type Verdict int

// Possible verdicts, in increasing severity. WITHHOLD keeps the signal
// pending for the next cycle; DROP never delivers it.
const (
	VerdictDeliver Verdict = iota
	VerdictWithhold
	VerdictDrop
)

// String returns the human-readable verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictDeliver:
		return "DELIVER"
	case VerdictWithhold:
		return "WITHHOLD"
	case VerdictDrop:
		return "DROP"
	default:
		return "UNKNOWN"
	}
}

// suppressionPolicy decides, per delivery attempt, whether a signal goes
// out now. It is pure: both the wall clock and the signal's creation time
// are passed in, so tests pin arbitrary moments.
type suppressionPolicy struct {
	quietEnabled   bool
	quietStart     int // minutes since midnight
	quietEnd       int
	weekendEnabled bool
	collectMonday  bool
	location       *time.Location
}

func newSuppressionPolicy(cfg config.Notification, loc *time.Location) (*suppressionPolicy, error) {
	policy := &suppressionPolicy{
		quietEnabled:   cfg.QuietHours.Enabled,
		weekendEnabled: cfg.Weekend.Enabled,
		collectMonday:  cfg.Weekend.CollectForMonday,
		location:       loc,
	}
	if cfg.QuietHours.Enabled {
		var err error
		if policy.quietStart, err = parseClock(cfg.QuietHours.Start); err != nil {
			return nil, fmt.Errorf("invalid quiet hours start: %w", err)
		}
		if policy.quietEnd, err = parseClock(cfg.QuietHours.End); err != nil {
			return nil, fmt.Errorf("invalid quiet hours end: %w", err)
		}
	}
	return policy, nil
}

// Evaluate applies the policy at delivery time. The rules, in order:
// a signal created on a weekend while collect-for-Monday is off is dropped
// on every attempt; any attempt made on a weekend is withheld until
// Monday's cycle; attempts inside quiet hours are withheld until the
// window closes.
func (p *suppressionPolicy) Evaluate(now, createdAt time.Time) Verdict {
	now = now.In(p.location)
	createdAt = createdAt.In(p.location)

	if p.weekendEnabled {
		if isWeekend(createdAt) && !p.collectMonday {
			return VerdictDrop
		}
		if isWeekend(now) {
			return VerdictWithhold
		}
	}
	if p.quietEnabled && p.inQuietWindow(now) {
		return VerdictWithhold
	}
	return VerdictDeliver
}

// inQuietWindow reports membership of now in the [start, end] window,
// boundaries included. A start after the end wraps across midnight.
func (p *suppressionPolicy) inQuietWindow(now time.Time) bool {
	minute := now.Hour()*60 + now.Minute()
	if p.quietStart > p.quietEnd {
		return minute >= p.quietStart || minute <= p.quietEnd
	}
	return minute >= p.quietStart && minute <= p.quietEnd
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// parseClock converts an "HH:MM" string into minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
