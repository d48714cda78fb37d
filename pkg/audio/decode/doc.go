// ABOUTME: Audio file sources for the transcoder
// ABOUTME: Decodes MP3, FLAC and raw PCM files to interleaved int16 samples
// Package decode reads audio files into PCM16 samples ready for framing.
//
// Supports: MP3, FLAC (any bit depth, scaled to 16-bit), raw PCM16 LE
//
// Example:
//
//	src, err := decode.Open("song.mp3", audio.Format{})
//	samples, err := decode.ReadAll(src)
package decode
