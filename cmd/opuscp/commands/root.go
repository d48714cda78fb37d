// ABOUTME: Root command, global flags and codec option layering
// ABOUTME: Options come from env, then a YAML profile, then changed flags
package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ospx/opuscp/internal/config"
	"github.com/ospx/opuscp/internal/discovery"
	"github.com/ospx/opuscp/pkg/codec"
)

var (
	// Global flags
	verbose     bool
	serverAddr  string
	discover    bool
	profileFile string
	profileName string

	frameSize     int
	sampleRate    int
	channels      int
	bitrate       int
	maxFrameSize  int
	maxPacketSize int
)

var rootCmd = &cobra.Command{
	Use:   "opuscp",
	Short: "Encode PCM16 audio to Opus packets and back",
	Long: `opuscp - PCM16 little-endian <-> Opus transcoder.

Packet files hold concatenated [uint16 LE length][opus packet] records.
Transcoding runs in-process by default, or on a remote opuscp-server with
--server or --discover.

Codec options default from OPUSCP_* environment variables (and .env), then
from a YAML profile (--profile/--use), then from flags.

Examples:
  opuscp encode song.mp3 song.opusraw --channels 2 --bitrate 96000
  opuscp decode song.opusraw song.pcm --channels 2 --play
  opuscp roundtrip voice.flac voice.pcm --profile codecs.yaml --use voice
  opuscp encode speech.pcm speech.opusraw --server 192.168.1.20:8927`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&serverAddr, "server", "s", "", "transcode on this server (host:port or ws:// URL)")
	pf.BoolVar(&discover, "discover", false, "transcode on the first server found via mDNS")
	pf.StringVar(&profileFile, "profile", "", "YAML codec profile file")
	pf.StringVar(&profileName, "use", "", "profile name in --profile")

	pf.IntVar(&frameSize, "frame-size", codec.DefaultFrameSize, "samples per channel per frame")
	pf.IntVar(&sampleRate, "sample-rate", codec.DefaultSampleRate, "codec sample rate in Hz")
	pf.IntVar(&channels, "channels", codec.DefaultChannels, "channels (0 or 1 mono, 2 stereo)")
	pf.IntVar(&bitrate, "bitrate", codec.DefaultBitrate, "bitrate in bits per second")
	pf.IntVar(&maxFrameSize, "max-frame-size", codec.DefaultMaxFrameSize, "max decoded samples per channel")
	pf.IntVar(&maxPacketSize, "max-packet-size", codec.DefaultMaxPacketSize, "max encoded packet bytes")

	rootCmd.AddCommand(encodeCmd, decodeCmd, roundtripCmd, profilesCmd, discoverCmd, versionCmd)
}

// resolveOptions layers environment, profile and changed flags
func resolveOptions(cmd *cobra.Command) (codec.Options, error) {
	if err := config.LoadEnv(); err != nil {
		return codec.Options{}, err
	}
	env, err := config.NewCodecConfigFromEnv(context.Background())
	if err != nil {
		return codec.Options{}, err
	}
	opts := env.Options()

	if profileFile != "" {
		pf, err := config.LoadProfiles(profileFile)
		if err != nil {
			return codec.Options{}, err
		}
		if profileName == "" {
			return codec.Options{}, fmt.Errorf("--profile needs --use (available: %v)", pf.Names())
		}
		if opts, err = pf.Options(profileName, opts); err != nil {
			return codec.Options{}, err
		}
	}

	flags := cmd.Flags()
	overrides := []struct {
		name string
		src  int
		dst  *int
	}{
		{"frame-size", frameSize, &opts.FrameSize},
		{"sample-rate", sampleRate, &opts.SampleRate},
		{"channels", channels, &opts.Channels},
		{"bitrate", bitrate, &opts.Bitrate},
		{"max-frame-size", maxFrameSize, &opts.MaxFrameSize},
		{"max-packet-size", maxPacketSize, &opts.MaxPacketSize},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			*o.dst = o.src
		}
	}

	if _, err := opts.Validate(); err != nil {
		return codec.Options{}, err
	}
	printVerbose("Codec: %+v", opts)
	return opts, nil
}

// remoteAddr returns the server to use, or "" for in-process transcoding
func remoteAddr() (string, error) {
	if serverAddr != "" {
		return serverAddr, nil
	}
	if !discover {
		return "", nil
	}

	mgr := discovery.NewManager(discovery.Config{})
	defer mgr.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	info, err := mgr.Lookup(ctx)
	if err != nil {
		return "", err
	}
	printVerbose("Using server %s at %s", info.Name, info.URL())
	return info.URL(), nil
}

func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
