//go:build !linux

// ABOUTME: OS thread identity fallback for non-Linux platforms
// ABOUTME: Thread keys are unavailable; callers pass explicit worker keys
package codec

// ThreadKey is not supported on this platform
func ThreadKey() (string, error) {
	return "", ErrNoThreadIdentity
}
