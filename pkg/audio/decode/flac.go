// ABOUTME: FLAC source
// ABOUTME: Decodes FLAC frames with mewkiz/flac and scales samples to 16-bit
package decode

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/ospx/opuscp/pkg/audio"
)

// FLACSource decodes a FLAC stream
type FLACSource struct {
	r        io.ReadCloser
	stream   *flac.Stream
	format   audio.Format
	bitDepth int
	pending  []int16
}

// NewFLAC creates a FLAC source
func NewFLAC(r io.ReadCloser) (*FLACSource, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	return &FLACSource{
		r:      r,
		stream: stream,
		format: audio.Format{
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
		},
		bitDepth: int(info.BitsPerSample),
	}, nil
}

func (s *FLACSource) Read(samples []int16) (int, error) {
	for len(s.pending) == 0 {
		frame, err := s.stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("flac decode error: %w", err)
		}

		channels := s.format.Channels
		block := int(frame.BlockSize)
		for i := 0; i < block; i++ {
			for ch := 0; ch < channels; ch++ {
				s.pending = append(s.pending, audio.ScaleToInt16(frame.Subframes[ch].Samples[i], s.bitDepth))
			}
		}
	}

	n := copy(samples, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *FLACSource) Format() audio.Format { return s.format }

func (s *FLACSource) Close() error {
	return s.r.Close()
}
