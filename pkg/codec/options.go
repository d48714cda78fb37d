// ABOUTME: Codec options and channel mode resolution
// ABOUTME: Per-call frame, rate, channel, bitrate and size bounds
package codec

import "fmt"

// Default option values used by NewConfig and DefaultOptions
const (
	DefaultFrameSize     = 960
	DefaultSampleRate    = 48000
	DefaultChannels      = 1
	DefaultBitrate       = 64000
	DefaultMaxFrameSize  = 6 * 960
	DefaultMaxPacketSize = 3 * 1276
)

// ChannelMode is the channel layout of a codec instance
type ChannelMode int

const (
	Mono   ChannelMode = 1
	Stereo ChannelMode = 2
)

// Count returns the number of interleaved channels
func (m ChannelMode) Count() int {
	return int(m)
}

func (m ChannelMode) String() string {
	switch m {
	case Mono:
		return "mono"
	case Stereo:
		return "stereo"
	}
	return fmt.Sprintf("ChannelMode(%d)", int(m))
}

// ResolveChannels maps a caller channel count to a mode.
// 0 and 1 are mono, 2 is stereo; anything else is ErrConfig.
func ResolveChannels(channels int) (ChannelMode, error) {
	switch channels {
	case 0, 1:
		return Mono, nil
	case 2:
		return Stereo, nil
	}
	return 0, fmt.Errorf("%w: channel count %d is not defined", ErrConfig, channels)
}

// Options are the per-call codec parameters
type Options struct {
	// FrameSize is samples per channel per frame
	FrameSize int
	// SampleRate in Hz, fixed on a session after first use
	SampleRate int
	// Channels is 0 or 1 (mono) or 2 (stereo)
	Channels int
	// Bitrate in bits per second, applied on every encode
	Bitrate int
	// MaxFrameSize bounds decoded samples per channel
	MaxFrameSize int
	// MaxPacketSize bounds encoded bytes
	MaxPacketSize int
}

// DefaultOptions returns 20ms mono frames at 48kHz and 64kbps
func DefaultOptions() Options {
	return Options{
		FrameSize:     DefaultFrameSize,
		SampleRate:    DefaultSampleRate,
		Channels:      DefaultChannels,
		Bitrate:       DefaultBitrate,
		MaxFrameSize:  DefaultMaxFrameSize,
		MaxPacketSize: DefaultMaxPacketSize,
	}
}

// Validate checks that every field is non-negative and resolves the channel mode
func (o Options) Validate() (ChannelMode, error) {
	fields := []struct {
		name  string
		value int
	}{
		{"frame size", o.FrameSize},
		{"sample rate", o.SampleRate},
		{"channels", o.Channels},
		{"bitrate", o.Bitrate},
		{"max frame size", o.MaxFrameSize},
		{"max packet size", o.MaxPacketSize},
	}
	for _, f := range fields {
		if f.value < 0 {
			return 0, fmt.Errorf("%w: %s must not be negative, got %d", ErrConfig, f.name, f.value)
		}
	}
	return ResolveChannels(o.Channels)
}

// PCMFrameBytes is the PCM byte length of one full frame for these options
func (o Options) PCMFrameBytes() int {
	mode, err := ResolveChannels(o.Channels)
	if err != nil {
		return 0
	}
	return o.FrameSize * mode.Count() * 2
}
