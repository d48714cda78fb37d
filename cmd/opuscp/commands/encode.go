// ABOUTME: encode command
// ABOUTME: Audio file to length-prefixed Opus packet stream
package commands

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ospx/opuscp/pkg/audio"
	"github.com/ospx/opuscp/pkg/audio/decode"
	"github.com/ospx/opuscp/pkg/codec"
	"github.com/ospx/opuscp/pkg/framing"
)

var (
	inputRate     int
	inputChannels int
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input> <output>",
	Short: "Encode an audio file to an Opus packet stream",
	Long: `Encode an MP3, FLAC or raw PCM16 LE file to a length-prefixed Opus
packet stream. The source is remixed and resampled to the codec's channel
count and sample rate; the last frame is padded with silence.

Raw input (.pcm, .raw) has no header: --input-rate and --input-channels
describe it and default to the codec options.

Examples:
  opuscp encode song.mp3 song.opusraw --channels 2
  opuscp encode mic.raw mic.opusraw --input-rate 16000 --sample-rate 16000 --frame-size 320`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}

		src, err := openSource(args[0], opts)
		if err != nil {
			return err
		}
		defer src.Close()

		t, err := openTranscoder(opts)
		if err != nil {
			return err
		}
		defer t.Close()

		out, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer out.Close()

		bw := bufio.NewWriter(out)
		st, err := encodeStream(src, t, opts, framing.NewWriter(bw))
		if err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		fmt.Printf("Encoded %s -> %s: %s\n", args[0], args[1], st)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{encodeCmd, roundtripCmd} {
		c.Flags().IntVar(&inputRate, "input-rate", 0, "sample rate of raw input (default: codec sample rate)")
		c.Flags().IntVar(&inputChannels, "input-channels", 0, "channels of raw input (default: codec channels)")
	}
}

// openSource opens an input file, describing raw PCM with the input flags
func openSource(path string, opts codec.Options) (decode.Source, error) {
	mode, err := codec.ResolveChannels(opts.Channels)
	if err != nil {
		return nil, err
	}
	raw := audio.Format{SampleRate: opts.SampleRate, Channels: mode.Count()}
	if inputRate > 0 {
		raw.SampleRate = inputRate
	}
	if inputChannels > 0 {
		raw.Channels = inputChannels
	}

	src, err := decode.Open(path, raw)
	if err != nil {
		return nil, err
	}
	f := src.Format()
	printVerbose("Source %s: %dHz, %d channels", path, f.SampleRate, f.Channels)
	return src, nil
}
