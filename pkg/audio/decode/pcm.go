// ABOUTME: Raw PCM source
// ABOUTME: Reads headerless 16-bit little-endian PCM
package decode

import (
	"fmt"
	"io"

	"github.com/ospx/opuscp/pkg/audio"
)

// PCMSource reads raw PCM16 LE
type PCMSource struct {
	r      io.ReadCloser
	format audio.Format
}

// NewPCM creates a raw PCM source with the given format
func NewPCM(r io.ReadCloser, format audio.Format) (*PCMSource, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("raw PCM needs a sample rate and channel count, got %d Hz %d ch",
			format.SampleRate, format.Channels)
	}
	return &PCMSource{r: r, format: format}, nil
}

func (s *PCMSource) Read(samples []int16) (int, error) {
	return readPCM16(s.r, samples)
}

func (s *PCMSource) Format() audio.Format { return s.format }
func (s *PCMSource) Close() error         { return s.r.Close() }
