// ABOUTME: OS thread identity on Linux
// ABOUTME: Builds session keys from the kernel thread ID
package codec

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// ThreadKey returns a session key for the calling OS thread. It is stable
// only while the goroutine is locked to the thread (runtime.LockOSThread,
// or a cgo callback entered from a foreign thread).
func ThreadKey() (string, error) {
	return "tid:" + strconv.Itoa(unix.Gettid()), nil
}
