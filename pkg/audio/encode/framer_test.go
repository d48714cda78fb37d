// ABOUTME: Tests for the PCM16 framer
// ABOUTME: Frame cutting, padding on flush and error propagation
package encode

import (
	"errors"
	"testing"

	"github.com/ospx/opuscp/pkg/codec"
)

type recorder struct {
	frames [][]byte
	err    error
}

func (r *recorder) EncodeFrame(pcm []byte) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.frames = append(r.frames, append([]byte(nil), pcm...))
	return []byte{byte(len(r.frames))}, nil
}

func smallOptions() codec.Options {
	opts := codec.DefaultOptions()
	opts.FrameSize = 2
	opts.Channels = 2
	return opts
}

func TestFramerCutsFrames(t *testing.T) {
	rec := &recorder{}
	f, err := NewFramer(rec, smallOptions())
	if err != nil {
		t.Fatalf("NewFramer() failed: %v", err)
	}

	// 8 bytes per frame (2 samples x 2 channels x 2 bytes)
	packets, err := f.Write(make([]byte, 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 0 {
		t.Errorf("expected no packets for a partial frame, got %d", len(packets))
	}

	packets, err = f.Write(make([]byte, 12))
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 2 {
		t.Fatalf("expected 2 packets, got %d", len(packets))
	}
	for i, frame := range rec.frames {
		if len(frame) != 8 {
			t.Errorf("frame %d: expected 8 bytes, got %d", i, len(frame))
		}
	}

	last, err := f.Flush()
	if err != nil {
		t.Fatal(err)
	}
	if last == nil {
		t.Fatal("expected a packet for the 1 pending byte")
	}
	if len(rec.frames[2]) != 8 {
		t.Errorf("expected padded frame of 8 bytes, got %d", len(rec.frames[2]))
	}
	if f.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", f.Frames())
	}

	last, err = f.Flush()
	if err != nil || last != nil {
		t.Errorf("expected nothing after second flush, got %v, %v", last, err)
	}
}

func TestFramerPreservesBytes(t *testing.T) {
	rec := &recorder{}
	f, err := NewFramer(rec, smallOptions())
	if err != nil {
		t.Fatal(err)
	}

	in := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if _, err := f.Write(in); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Flush(); err != nil {
		t.Fatal(err)
	}

	want := [][]byte{{1, 2, 3, 4, 5, 6, 7, 8}, {9, 0, 0, 0, 0, 0, 0, 0}}
	for i := range want {
		if string(rec.frames[i]) != string(want[i]) {
			t.Errorf("frame %d: expected %v, got %v", i, want[i], rec.frames[i])
		}
	}
}

func TestNewFramerRejectsBadOptions(t *testing.T) {
	opts := smallOptions()
	opts.FrameSize = 0
	if _, err := NewFramer(&recorder{}, opts); !errors.Is(err, codec.ErrConfig) {
		t.Errorf("expected ErrConfig for zero frame size, got %v", err)
	}

	opts = smallOptions()
	opts.Channels = 3
	if _, err := NewFramer(&recorder{}, opts); !errors.Is(err, codec.ErrConfig) {
		t.Errorf("expected ErrConfig for 3 channels, got %v", err)
	}
}

func TestFramerPropagatesErrors(t *testing.T) {
	rec := &recorder{err: codec.ErrEncode}
	f, err := NewFramer(rec, smallOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(make([]byte, 8)); !errors.Is(err, codec.ErrEncode) {
		t.Errorf("expected ErrEncode, got %v", err)
	}
}

func TestLocalEncodesOnSession(t *testing.T) {
	opts := codec.DefaultOptions()
	s := codec.NewSession(codec.LibOpus{})
	f, err := NewFramer(Local(s, opts), opts)
	if err != nil {
		t.Fatal(err)
	}
	packets, err := f.Write(make([]byte, opts.PCMFrameBytes()*2))
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if len(packets) != 2 {
		t.Fatalf("expected 2 packets, got %d", len(packets))
	}
	for i, p := range packets {
		if len(p) == 0 || len(p) > opts.MaxPacketSize {
			t.Errorf("packet %d: unexpected length %d", i, len(p))
		}
	}
}
