// ABOUTME: File transcoding pipelines
// ABOUTME: Conform, frame and encode sources; decode packet streams to a sink
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/ospx/opuscp/pkg/audio"
	"github.com/ospx/opuscp/pkg/audio/decode"
	"github.com/ospx/opuscp/pkg/audio/encode"
	"github.com/ospx/opuscp/pkg/audio/resample"
	"github.com/ospx/opuscp/pkg/codec"
	"github.com/ospx/opuscp/pkg/framing"
)

// stats summarizes one transcoding run
type stats struct {
	Frames   int
	PCMBytes int
	Packets  int
	OpusSize int
}

func (s stats) String() string {
	ratio := 0.0
	if s.OpusSize > 0 {
		ratio = float64(s.PCMBytes) / float64(s.OpusSize)
	}
	return fmt.Sprintf("%d frames, %d PCM bytes, %d Opus bytes (%.1fx)", s.Frames, s.PCMBytes, s.OpusSize, ratio)
}

// conformer converts source samples to the codec's rate and channel count
type conformer struct {
	from      audio.Format
	channels  int
	resampler *resample.Resampler
}

func newConformer(from audio.Format, opts codec.Options) (*conformer, error) {
	mode, err := codec.ResolveChannels(opts.Channels)
	if err != nil {
		return nil, err
	}
	if from.Channels > 2 {
		return nil, fmt.Errorf("source has %d channels, only mono and stereo are supported", from.Channels)
	}

	c := &conformer{from: from, channels: mode.Count()}
	if from.SampleRate != opts.SampleRate {
		c.resampler = resample.New(from.SampleRate, opts.SampleRate, mode.Count())
	}
	return c, nil
}

func (c *conformer) convert(samples []int16) []int16 {
	out := audio.Remix(samples, c.from.Channels, c.channels)
	if c.resampler != nil {
		out = c.resampler.Resample(out)
	}
	return out
}

// encodeStream encodes src into w, padding the last frame with silence
func encodeStream(src decode.Source, t transcoder, opts codec.Options, w *framing.Writer) (stats, error) {
	var st stats

	conform, err := newConformer(src.Format(), opts)
	if err != nil {
		return st, err
	}
	framer, err := encode.NewFramer(t, opts)
	if err != nil {
		return st, err
	}

	write := func(packets ...[]byte) error {
		for _, p := range packets {
			if p == nil {
				continue
			}
			if err := w.WritePacket(p); err != nil {
				return fmt.Errorf("failed to write packet: %w", err)
			}
			st.Packets++
			st.OpusSize += len(p)
		}
		return nil
	}

	buf := make([]int16, 8192)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			pcm := audio.PCMFromSamples(conform.convert(buf[:n]))
			st.PCMBytes += len(pcm)
			packets, err := framer.Write(pcm)
			if werr := write(packets...); werr != nil {
				return st, werr
			}
			if err != nil {
				return st, err
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return st, readErr
		}
	}

	last, err := framer.Flush()
	if err != nil {
		return st, err
	}
	if err := write(last); err != nil {
		return st, err
	}
	st.Frames = framer.Frames()
	return st, nil
}

// decodeStream decodes every packet from r and hands the PCM to sink
func decodeStream(r *framing.Reader, t transcoder, sink func(pcm []byte) error) (stats, error) {
	var st stats
	for {
		packet, err := r.ReadPacket()
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		if err != nil {
			return st, fmt.Errorf("packet %d: %w", st.Packets, err)
		}

		pcm, err := t.DecodeFrame(packet)
		if err != nil {
			return st, fmt.Errorf("packet %d: %w", st.Packets, err)
		}
		st.Packets++
		st.Frames++
		st.OpusSize += len(packet)
		st.PCMBytes += len(pcm)

		if err := sink(pcm); err != nil {
			return st, err
		}
	}
}
