package courier

import "time"

// Ticker schedules a function to run repeatedly.
//
// Every registers tick to run once per interval until the returned stop function is
// called. stop must be safe to call more than once and from inside tick.
type Ticker interface {
	Every(interval time.Duration, tick func()) (stop func(), err error)
}
