// ABOUTME: roundtrip command
// ABOUTME: Encodes and decodes a file in memory
package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ospx/opuscp/pkg/framing"
)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <input> [output]",
	Short: "Encode and decode a file, reporting sizes",
	Long: `Encode an audio file to Opus and decode it again in memory. The decoded
PCM16 LE is written to the output file and/or played with --play.

Examples:
  opuscp roundtrip voice.flac --bitrate 12000 --play
  opuscp roundtrip song.mp3 song.pcm --channels 2 --server studio.local:8927`,
	Args: cobra.RangeArgs(1, 2),
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

		var packets bytes.Buffer
		enc, err := encodeStream(src, t, opts, framing.NewWriter(&packets))
		if err != nil {
			return err
		}

		sink, closeSink, err := openSink(args[1:], opts)
		if err != nil {
			return err
		}
		dec, err := decodeStream(framing.NewReader(&packets), t, sink)
		if cerr := closeSink(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Encoded: %s\nDecoded: %s\n", enc, dec)
		return nil
	},
}
