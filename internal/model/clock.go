package model

import "time"

// Clock supplies the current time. The store and engine take a Clock instead
// of calling time.Now directly so tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

// RealClock returns the wall-clock time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
