// ABOUTME: Streaming PCM16 to Opus framing
// ABOUTME: Cuts a PCM stream into codec frames and encodes each one
// Package encode turns a continuous PCM16 stream into Opus packets.
//
// Example:
//
//	f, err := encode.NewFramer(encode.Local(session, opts), opts)
//	packets, err := f.Write(pcm)
//	last, err := f.Flush()
package encode
