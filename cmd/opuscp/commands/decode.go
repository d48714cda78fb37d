// ABOUTME: decode command and PCM sinks
// ABOUTME: Packet stream to PCM16 file, stdout or the sound device
package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ospx/opuscp/pkg/audio"
	"github.com/ospx/opuscp/pkg/audio/output"
	"github.com/ospx/opuscp/pkg/codec"
	"github.com/ospx/opuscp/pkg/framing"
)

var (
	play   bool
	volume int
)

var decodeCmd = &cobra.Command{
	Use:   "decode <input> [output]",
	Short: "Decode an Opus packet stream to raw PCM16 LE",
	Long: `Decode a length-prefixed Opus packet stream to raw PCM16 little-endian.
The output may be omitted when --play is set; "-" writes to stdout.

Examples:
  opuscp decode song.opusraw song.pcm --channels 2
  opuscp decode song.opusraw --channels 2 --play`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && !play {
			return fmt.Errorf("output file is required unless --play is set")
		}

		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}

		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer in.Close()

		t, err := openTranscoder(opts)
		if err != nil {
			return err
		}
		defer t.Close()

		sink, closeSink, err := openSink(args[1:], opts)
		if err != nil {
			return err
		}

		st, err := decodeStream(framing.NewReader(bufio.NewReader(in)), t, sink)
		if cerr := closeSink(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Decoded %s: %s\n", args[0], st)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{decodeCmd, roundtripCmd} {
		c.Flags().BoolVar(&play, "play", false, "play decoded audio on the default output device")
		c.Flags().IntVar(&volume, "volume", 100, "playback volume (0-100)")
	}
}

// openSink builds a PCM consumer writing to the optional output path and
// the sound device when --play is set
func openSink(outPath []string, opts codec.Options) (func([]byte) error, func() error, error) {
	var writers []io.Writer
	var closers []func() error

	closeAll := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	if len(outPath) > 0 {
		if outPath[0] == "-" {
			bw := bufio.NewWriter(os.Stdout)
			writers = append(writers, bw)
			closers = append(closers, bw.Flush)
		} else {
			f, err := os.Create(outPath[0])
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create output: %w", err)
			}
			bw := bufio.NewWriter(f)
			writers = append(writers, bw)
			closers = append(closers, f.Close, bw.Flush)
		}
	}

	var player *output.Oto
	if play {
		mode, err := codec.ResolveChannels(opts.Channels)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		player = output.NewOto()
		player.SetVolume(volume)
		if err := player.Open(opts.SampleRate, mode.Count()); err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, player.Close)
	}

	sink := func(pcm []byte) error {
		for _, w := range writers {
			if _, err := w.Write(pcm); err != nil {
				return fmt.Errorf("failed to write PCM: %w", err)
			}
		}
		if player != nil {
			return player.Write(audio.SamplesFromPCM(pcm, 0, len(pcm)))
		}
		return nil
	}
	return sink, closeAll, nil
}
