// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts PCM16 audio to rates the Opus engine accepts
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates. File
// sources at 44.1kHz are brought to an Opus rate before framing.
//
// Example:
//
//	r := resample.New(44100, 48000, 2)
//	out := r.Resample(samples)
package resample
