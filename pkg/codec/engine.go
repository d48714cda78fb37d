// ABOUTME: Opus engine abstraction and libopus implementation
// ABOUTME: Creates encoder and decoder instances for a session
package codec

import (
	"gopkg.in/hraban/opus.v2"
)

// Encoder is a live Opus encoder instance
type Encoder interface {
	// SetBitrate sets the target bitrate in bits per second
	SetBitrate(bitrate int) error
	// Encode encodes interleaved pcm into data and returns the packet length
	Encode(pcm []int16, data []byte) (int, error)
}

// Decoder is a live Opus decoder instance
type Decoder interface {
	// Decode decodes data into pcm and returns samples per channel
	Decode(data []byte, pcm []int16) (int, error)
}

// Engine creates codec instances
type Engine interface {
	NewEncoder(sampleRate int, mode ChannelMode) (Encoder, error)
	NewDecoder(sampleRate int, mode ChannelMode) (Decoder, error)
}

// LibOpus is the libopus engine. The zero value encodes with the audio
// application profile.
type LibOpus struct {
	Application opus.Application
}

// NewEncoder creates a libopus encoder
func (l LibOpus) NewEncoder(sampleRate int, mode ChannelMode) (Encoder, error) {
	app := l.Application
	if app == 0 {
		app = opus.AppAudio
	}
	enc, err := opus.NewEncoder(sampleRate, mode.Count(), app)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// NewDecoder creates a libopus decoder
func (l LibOpus) NewDecoder(sampleRate int, mode ChannelMode) (Decoder, error) {
	dec, err := opus.NewDecoder(sampleRate, mode.Count())
	if err != nil {
		return nil, err
	}
	return dec, nil
}
