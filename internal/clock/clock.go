package clock

import "time"

// Clock supplies the current time so date-sensitive queries can be pinned
// in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func New() Clock {
	return systemClock{}
}
