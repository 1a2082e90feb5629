package membench

import "time"

// Stopwatch measures elapsed wall time using Go's monotonic clock, which makes the elapsed computation
// safe against wall-clock adjustments. It is not a state machine: Start overwrites the starting instant,
// and each Stop variant simply reports the time since the last Start, however many times it is called.
type Stopwatch struct {
	start time.Time
}

func (s *Stopwatch) Start() { s.start = time.Now() }

// Stop returns the seconds elapsed since the last Start.
func (s *Stopwatch) Stop() float64 { return time.Since(s.start).Seconds() }

// StopNs returns the nanoseconds elapsed since the last Start.
func (s *Stopwatch) StopNs() int64 { return time.Since(s.start).Nanoseconds() }
