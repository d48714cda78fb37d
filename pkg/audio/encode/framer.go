// ABOUTME: Framer that buffers PCM16 bytes into whole codec frames
// ABOUTME: Encodes full frames as they fill and pads the last one on flush
package encode

import (
	"fmt"

	"github.com/ospx/opuscp/pkg/codec"
)

// FrameEncoder encodes exactly one PCM16 frame
type FrameEncoder interface {
	EncodeFrame(pcm []byte) ([]byte, error)
}

// FrameEncoderFunc adapts a function to FrameEncoder
type FrameEncoderFunc func(pcm []byte) ([]byte, error)

func (f FrameEncoderFunc) EncodeFrame(pcm []byte) ([]byte, error) {
	return f(pcm)
}

// Local encodes frames on a codec session with fixed options
func Local(s *codec.Session, opts codec.Options) FrameEncoder {
	return FrameEncoderFunc(func(pcm []byte) ([]byte, error) {
		return s.EncodeAll(opts, pcm)
	})
}

// Framer accumulates PCM16 bytes and emits one packet per full frame
type Framer struct {
	enc        FrameEncoder
	frameBytes int
	pending    []byte
	frames     int
}

// NewFramer creates a framer cutting frames of opts.FrameSize samples per channel
func NewFramer(enc FrameEncoder, opts codec.Options) (*Framer, error) {
	if _, err := opts.Validate(); err != nil {
		return nil, err
	}
	frameBytes := opts.PCMFrameBytes()
	if frameBytes == 0 {
		return nil, fmt.Errorf("%w: frame size must be positive", codec.ErrConfig)
	}
	return &Framer{enc: enc, frameBytes: frameBytes}, nil
}

// Write buffers pcm and encodes every full frame now available
func (f *Framer) Write(pcm []byte) ([][]byte, error) {
	f.pending = append(f.pending, pcm...)

	var packets [][]byte
	for len(f.pending) >= f.frameBytes {
		packet, err := f.enc.EncodeFrame(f.pending[:f.frameBytes])
		if err != nil {
			return packets, fmt.Errorf("frame %d: %w", f.frames, err)
		}
		packets = append(packets, packet)
		f.pending = f.pending[f.frameBytes:]
		f.frames++
	}

	// compact so the buffer doesn't grow with the stream
	f.pending = append([]byte(nil), f.pending...)
	return packets, nil
}

// Flush pads the partial frame with silence and encodes it.
// It returns nil when nothing is pending.
func (f *Framer) Flush() ([]byte, error) {
	if len(f.pending) == 0 {
		return nil, nil
	}
	frame := make([]byte, f.frameBytes)
	copy(frame, f.pending)
	f.pending = nil

	packet, err := f.enc.EncodeFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", f.frames, err)
	}
	f.frames++
	return packet, nil
}

// Frames returns the number of frames encoded so far
func (f *Framer) Frames() int {
	return f.frames
}
