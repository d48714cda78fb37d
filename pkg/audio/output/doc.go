// ABOUTME: Audio output package for playing decoded PCM
// ABOUTME: Provides the Output interface and an oto implementation
// Package output plays PCM16 audio on the local sound device.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(48000, 1)
//	err = out.Write(samples)
package output
