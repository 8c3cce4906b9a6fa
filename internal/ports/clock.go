package ports

import "time"

// Clock abstracts wall-clock "now" so day-math is testable with a fixed time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports the same instant; used in tests
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}
