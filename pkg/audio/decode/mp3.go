// ABOUTME: MP3 source
// ABOUTME: Decodes MP3 to stereo int16 samples with go-mp3
package decode

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/ospx/opuscp/pkg/audio"
)

// MP3Source decodes an MP3 stream
type MP3Source struct {
	r       io.ReadCloser
	decoder *mp3.Decoder
}

// NewMP3 creates an MP3 source. go-mp3 always produces stereo.
func NewMP3(r io.ReadCloser) (*MP3Source, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}
	return &MP3Source{r: r, decoder: decoder}, nil
}

func (s *MP3Source) Read(samples []int16) (int, error) {
	n, err := readPCM16(s.decoder, samples)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("mp3 decode error: %w", err)
	}
	return n, err
}

func (s *MP3Source) Format() audio.Format {
	return audio.Format{SampleRate: s.decoder.SampleRate(), Channels: 2}
}

func (s *MP3Source) Close() error { return s.r.Close() }
