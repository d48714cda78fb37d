// ABOUTME: Audio fundamentals package providing PCM types and utilities
// ABOUTME: Defines Format and 16-bit little-endian sample conversions
// Package audio provides the PCM primitives shared by the codec, the file
// sources and the playback output.
//
// All PCM handled by opuscp is signed 16-bit little-endian, interleaved by
// channel:
//
//	samples := audio.SamplesFromPCM(buf, 0, len(buf))
//	buf = audio.PCMFromSamples(samples)
package audio
