//go:build linux

package membench

import "golang.org/x/sys/unix"

// elevateThreadPriority asks the scheduler to favor the calling thread. The caller must already be locked
// to its OS thread. Raising priority needs CAP_SYS_NICE or a permissive RLIMIT_NICE, so failure is
// expected for ordinary users; the launcher logs it and carries on.
func elevateThreadPriority() error {
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), -10)
}
