package lcd

import (
	"time"
)

// Delayer blocks the caller for at least the given duration.
type Delayer interface {
	Delay(d time.Duration)
}

type DelayFunc func(d time.Duration)

func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

var (
	// BusyWait spins on the monotonic clock. Scheduler sleeps on most hosts
	// are far coarser than the microsecond waits the controller needs.
	BusyWait Delayer = DelayFunc(busyWait)
	Sleep    Delayer = DelayFunc(time.Sleep)
)

func busyWait(d time.Duration) {
	if d <= 0 {
		return
	}
	start := time.Now()
	for time.Since(start) < d {
	}
}

// DelayerByName maps the configuration names onto the built in delays.
func DelayerByName(name string) (Delayer, bool) {
	switch name {
	case "", "busywait":
		return BusyWait, true
	case "sleep":
		return Sleep, true
	}
	return nil, false
}
