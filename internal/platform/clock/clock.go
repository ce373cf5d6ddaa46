package clock

import "time"

// Clock abstracts time so reaction times stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}
