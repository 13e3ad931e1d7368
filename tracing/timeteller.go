package tracing

import "time"

// A TimeTeller can tell the current time, in seconds.
type TimeTeller interface {
	CurrentTime() float64
}

// NewWallClockTimeTeller returns a TimeTeller that reports the seconds
// elapsed since its creation.
func NewWallClockTimeTeller() TimeTeller {
	return &wallClockTimeTeller{start: time.Now()}
}

type wallClockTimeTeller struct {
	start time.Time
}

func (t *wallClockTimeTeller) CurrentTime() float64 {
	return time.Since(t.start).Seconds()
}
