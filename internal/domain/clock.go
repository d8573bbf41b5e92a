package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source for snapshot timestamps and rolling
// feed windows. Tests inject a fake via SetClock for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}
