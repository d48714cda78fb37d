// ABOUTME: Recording fake Opus engine for codec tests
// ABOUTME: Captures instance creation, bitrates and sample buffers
package codec

import (
	"errors"
	"sync"
)

type fakeEncoder struct {
	sampleRate int
	mode       ChannelMode
	bitrates   []int
	lastPCM    []int16
	lastCap    int
	packet     []byte
	bitrateErr error
	encodeErr  error
}

func (e *fakeEncoder) SetBitrate(bitrate int) error {
	if e.bitrateErr != nil {
		return e.bitrateErr
	}
	e.bitrates = append(e.bitrates, bitrate)
	return nil
}

func (e *fakeEncoder) Encode(pcm []int16, data []byte) (int, error) {
	e.lastPCM = append([]int16{}, pcm...)
	e.lastCap = len(data)
	if e.encodeErr != nil {
		return 0, e.encodeErr
	}
	return copy(data, e.packet), nil
}

type fakeDecoder struct {
	sampleRate int
	mode       ChannelMode
	samples    []int16 // interleaved output to produce
	perChannel int
	lastData   []byte
	lastCap    int
	decodeErr  error
}

func (d *fakeDecoder) Decode(data []byte, pcm []int16) (int, error) {
	d.lastData = append([]byte(nil), data...)
	d.lastCap = len(pcm)
	if d.decodeErr != nil {
		return 0, d.decodeErr
	}
	if len(pcm) == 0 {
		return 0, errors.New("target buffer empty")
	}
	copy(pcm, d.samples)
	return d.perChannel, nil
}

type fakeEngine struct {
	mu       sync.Mutex
	encoders []*fakeEncoder
	decoders []*fakeDecoder
	initErr  error

	// templates applied to newly created instances
	packet     []byte
	samples    []int16
	perChannel int
}

func (f *fakeEngine) NewEncoder(sampleRate int, mode ChannelMode) (Encoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return nil, f.initErr
	}
	enc := &fakeEncoder{sampleRate: sampleRate, mode: mode, packet: f.packet}
	f.encoders = append(f.encoders, enc)
	return enc, nil
}

func (f *fakeEngine) NewDecoder(sampleRate int, mode ChannelMode) (Decoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return nil, f.initErr
	}
	dec := &fakeDecoder{sampleRate: sampleRate, mode: mode, samples: f.samples, perChannel: f.perChannel}
	f.decoders = append(f.decoders, dec)
	return dec, nil
}
