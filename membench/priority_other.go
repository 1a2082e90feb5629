//go:build !linux

package membench

// elevateThreadPriority is a no-op where we have no portable way to raise a single thread's scheduling
// priority. Workers run at default priority, which only affects measurement noise, not correctness.
func elevateThreadPriority() error { return nil }
