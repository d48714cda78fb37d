// ABOUTME: Tests for frame transcoding
// ABOUTME: Tests PCM sample layout, bounds sizing and error kinds
package codec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeFrameEndianness(t *testing.T) {
	engine := &fakeEngine{packet: []byte{1, 2, 3}}
	sess := NewSession(engine)

	_, err := sess.EncodeFrame(DefaultOptions(), []byte{0x34, 0x12}, 0, 2)
	if err != nil {
		t.Fatalf("EncodeFrame() failed: %v", err)
	}

	if diff := cmp.Diff([]int16{0x1234}, engine.encoders[0].lastPCM); diff != "" {
		t.Errorf("sample mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeFrameRegion(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		offset   int
		length   int
		expected []int16
	}{
		{"odd length truncates", []byte{0x01, 0x00, 0x02, 0x00, 0x03}, 0, 5, []int16{1, 2}},
		{"single byte", []byte{0x01}, 0, 1, []int16{}},
		{"offset", []byte{0xEE, 0xEE, 0x01, 0x80, 0xFF, 0x7F}, 2, 4, []int16{-32767, 32767}},
		{"length shorter than buffer", []byte{0x05, 0x00, 0x06, 0x00}, 0, 2, []int16{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{packet: []byte{0xF8}}
			sess := NewSession(engine)

			if _, err := sess.EncodeFrame(DefaultOptions(), tt.buf, tt.offset, tt.length); err != nil {
				t.Fatalf("EncodeFrame() failed: %v", err)
			}
			if diff := cmp.Diff(tt.expected, engine.encoders[0].lastPCM); diff != "" {
				t.Errorf("sample mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeFrameChannelResolution(t *testing.T) {
	tests := []struct {
		channels int
		expected ChannelMode
	}{
		{0, Mono},
		{1, Mono},
		{2, Stereo},
	}

	for _, tt := range tests {
		engine := &fakeEngine{packet: []byte{0xF8}}
		sess := NewSession(engine)
		opts := DefaultOptions()
		opts.Channels = tt.channels

		if _, err := sess.EncodeFrame(opts, make([]byte, 4), 0, 4); err != nil {
			t.Fatalf("channels=%d: EncodeFrame() failed: %v", tt.channels, err)
		}
		if engine.encoders[0].mode != tt.expected {
			t.Errorf("channels=%d: expected %s, got %s", tt.channels, tt.expected, engine.encoders[0].mode)
		}
	}

	engine := &fakeEngine{}
	sess := NewSession(engine)
	opts := DefaultOptions()
	opts.Channels = 3

	if _, err := sess.EncodeFrame(opts, make([]byte, 4), 0, 4); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for channels=3, got %v", err)
	}
	if _, err := sess.DecodeFrame(opts, []byte{0xF8}); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for channels=3, got %v", err)
	}
	if len(engine.encoders)+len(engine.decoders) != 0 {
		t.Error("invalid channels must not create codec instances")
	}
}

func TestEncodeFrameSessionStability(t *testing.T) {
	engine := &fakeEngine{packet: []byte{0xF8}}
	sess := NewSession(engine)
	pcm := make([]byte, 8)

	opts := DefaultOptions()
	if _, err := sess.EncodeFrame(opts, pcm, 0, len(pcm)); err != nil {
		t.Fatal(err)
	}

	opts.SampleRate = 16000
	opts.Channels = 2
	if _, err := sess.EncodeFrame(opts, pcm, 0, len(pcm)); err != nil {
		t.Fatal(err)
	}

	if len(engine.encoders) != 1 {
		t.Fatalf("expected 1 encoder, got %d", len(engine.encoders))
	}
	if engine.encoders[0].sampleRate != 48000 || engine.encoders[0].mode != Mono {
		t.Errorf("expected first call parameters to win, got %d %s",
			engine.encoders[0].sampleRate, engine.encoders[0].mode)
	}
}

func TestEncodeFrameBitratePerCall(t *testing.T) {
	engine := &fakeEngine{packet: []byte{0xF8}}
	sess := NewSession(engine)
	pcm := make([]byte, 8)

	opts := DefaultOptions()
	for _, bitrate := range []int{64000, 24000, 128000} {
		opts.Bitrate = bitrate
		if _, err := sess.EncodeFrame(opts, pcm, 0, len(pcm)); err != nil {
			t.Fatal(err)
		}
	}

	if len(engine.encoders) != 1 {
		t.Fatalf("expected 1 encoder, got %d", len(engine.encoders))
	}
	if diff := cmp.Diff([]int{64000, 24000, 128000}, engine.encoders[0].bitrates); diff != "" {
		t.Errorf("bitrate mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeFramePacketSize(t *testing.T) {
	engine := &fakeEngine{packet: []byte{9, 8, 7, 6, 5}}
	sess := NewSession(engine)

	opts := DefaultOptions()
	opts.MaxPacketSize = 100
	packet, err := sess.EncodeAll(opts, make([]byte, 4))
	if err != nil {
		t.Fatal(err)
	}

	if engine.encoders[0].lastCap != 100 {
		t.Errorf("expected output bound 100, got %d", engine.encoders[0].lastCap)
	}
	if diff := cmp.Diff([]byte{9, 8, 7, 6, 5}, packet); diff != "" {
		t.Errorf("packet mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeFrameErrors(t *testing.T) {
	cause := errors.New("engine failure")

	t.Run("bitrate rejected", func(t *testing.T) {
		engine := &fakeEngine{}
		sess := NewSession(engine)
		if _, err := sess.Encoder(48000, Mono); err != nil {
			t.Fatal(err)
		}
		engine.encoders[0].bitrateErr = cause

		_, err := sess.EncodeFrame(DefaultOptions(), make([]byte, 4), 0, 4)
		if !errors.Is(err, ErrEncode) || !errors.Is(err, cause) {
			t.Errorf("expected ErrEncode wrapping cause, got %v", err)
		}
	})

	t.Run("frame rejected", func(t *testing.T) {
		engine := &fakeEngine{}
		sess := NewSession(engine)
		if _, err := sess.Encoder(48000, Mono); err != nil {
			t.Fatal(err)
		}
		engine.encoders[0].encodeErr = cause

		_, err := sess.EncodeFrame(DefaultOptions(), make([]byte, 4), 0, 4)
		if !errors.Is(err, ErrEncode) || !errors.Is(err, cause) {
			t.Errorf("expected ErrEncode wrapping cause, got %v", err)
		}
	})

	t.Run("region outside buffer", func(t *testing.T) {
		sess := NewSession(&fakeEngine{})
		regions := [][2]int{{0, 5}, {3, 2}, {-1, 2}, {0, -2}}
		for _, r := range regions {
			if _, err := sess.EncodeFrame(DefaultOptions(), make([]byte, 4), r[0], r[1]); !errors.Is(err, ErrEncode) {
				t.Errorf("offset=%d length=%d: expected ErrEncode, got %v", r[0], r[1], err)
			}
		}
	})

	t.Run("init rejected", func(t *testing.T) {
		sess := NewSession(&fakeEngine{initErr: cause})
		if _, err := sess.EncodeFrame(DefaultOptions(), make([]byte, 4), 0, 4); !errors.Is(err, ErrCodecInit) {
			t.Errorf("expected ErrCodecInit, got %v", err)
		}
	})
}

func TestDecodeFrameEndianness(t *testing.T) {
	engine := &fakeEngine{samples: []int16{0x1234}, perChannel: 1}
	sess := NewSession(engine)

	pcm, err := sess.DecodeFrame(DefaultOptions(), []byte{0xF8})
	if err != nil {
		t.Fatalf("DecodeFrame() failed: %v", err)
	}
	if diff := cmp.Diff([]byte{0x34, 0x12}, pcm); diff != "" {
		t.Errorf("pcm mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFrameSizing(t *testing.T) {
	engine := &fakeEngine{samples: []int16{1, -1, 2, -2, 3, -3}, perChannel: 3}
	sess := NewSession(engine)

	opts := DefaultOptions()
	opts.Channels = 2
	opts.MaxFrameSize = 120

	pcm, err := sess.DecodeFrame(opts, []byte{0xFC, 0x00})
	if err != nil {
		t.Fatalf("DecodeFrame() failed: %v", err)
	}

	dec := engine.decoders[0]
	if dec.lastCap != 240 {
		t.Errorf("expected scratch of 240 samples, got %d", dec.lastCap)
	}
	if diff := cmp.Diff([]byte{0xFC, 0x00}, dec.lastData); diff != "" {
		t.Errorf("packet mismatch (-want +got):\n%s", diff)
	}
	if len(pcm) != 2*2*3 {
		t.Fatalf("expected %d bytes, got %d", 12, len(pcm))
	}
	expected := []byte{1, 0, 0xFF, 0xFF, 2, 0, 0xFE, 0xFF, 3, 0, 0xFD, 0xFF}
	if diff := cmp.Diff(expected, pcm); diff != "" {
		t.Errorf("pcm mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFrameZeroChannels(t *testing.T) {
	engine := &fakeEngine{samples: []int16{1}, perChannel: 1}
	sess := NewSession(engine)

	opts := DefaultOptions()
	opts.Channels = 0

	_, err := sess.DecodeFrame(opts, []byte{0xF8})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode for empty scratch, got %v", err)
	}
	if engine.decoders[0].lastCap != 0 {
		t.Errorf("expected zero-length scratch, got %d", engine.decoders[0].lastCap)
	}
	if engine.decoders[0].mode != Mono {
		t.Errorf("expected decoder created as mono, got %s", engine.decoders[0].mode)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	cause := errors.New("corrupt packet")
	engine := &fakeEngine{}
	sess := NewSession(engine)
	if _, err := sess.Decoder(48000, Mono); err != nil {
		t.Fatal(err)
	}
	engine.decoders[0].decodeErr = cause

	_, err := sess.DecodeFrame(DefaultOptions(), []byte{0x00})
	if !errors.Is(err, ErrDecode) || !errors.Is(err, cause) {
		t.Errorf("expected ErrDecode wrapping cause, got %v", err)
	}

	engine.decoders[0].decodeErr = nil
	engine.decoders[0].perChannel = DefaultMaxFrameSize + 1
	if _, err := sess.DecodeFrame(DefaultOptions(), []byte{0x00}); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for oversized result, got %v", err)
	}
}
