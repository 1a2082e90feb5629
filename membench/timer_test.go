package membench

import (
	"testing"
	"time"

	. "github.com/cespare/a"
)

func TestStopwatch(t *testing.T) {
	var sw Stopwatch
	sw.Start()
	time.Sleep(time.Millisecond)
	secs := sw.Stop()
	Assert(t, secs > 0, IsTrue)

	// Stop is not terminal; later calls keep measuring from the same Start.
	ns := sw.StopNs()
	Assert(t, ns >= int64(time.Millisecond), IsTrue)

	// Restarting resets the base instant.
	sw.Start()
	Assert(t, sw.StopNs() < ns, IsTrue)
}
