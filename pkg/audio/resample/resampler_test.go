// ABOUTME: Tests for the linear resampler
// ABOUTME: Tests rate conversion lengths, passthrough and chunk continuity
package resample

import (
	"math"
	"testing"
)

func TestResamplePassthrough(t *testing.T) {
	r := New(48000, 48000, 2)
	in := []int16{1, 2, 3, 4}
	out := r.Resample(in)
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: expected %d, got %d", i, in[i], out[i])
		}
	}
}

func TestResampleUpsampleLength(t *testing.T) {
	r := New(44100, 48000, 2)

	total := 0
	for chunk := 0; chunk < 10; chunk++ {
		in := make([]int16, 4410*2) // 100ms stereo
		total += len(r.Resample(in))
	}

	// one second of input should produce close to one second of output
	frames := total / 2
	if math.Abs(float64(frames-48000)) > 10 {
		t.Errorf("expected about 48000 frames, got %d", frames)
	}
}

func TestResampleDownsampleLength(t *testing.T) {
	r := New(48000, 16000, 1)
	out := r.Resample(make([]int16, 48000))
	if math.Abs(float64(len(out)-16000)) > 2 {
		t.Errorf("expected about 16000 samples, got %d", len(out))
	}
}

func TestResampleInterpolates(t *testing.T) {
	r := New(1, 2, 1)
	out := r.Resample([]int16{0, 100, 200})

	expected := []int16{0, 50, 100, 150}
	if len(out) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, out)
	}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("sample %d: expected %d, got %d", i, expected[i], out[i])
		}
	}

	// next chunk continues from the carried frame
	next := r.Resample([]int16{300})
	if len(next) != 2 || next[0] != 200 || next[1] != 250 {
		t.Errorf("expected [200 250], got %v", next)
	}
}

func TestIsOpusRate(t *testing.T) {
	if !IsOpusRate(48000) || !IsOpusRate(8000) {
		t.Error("expected 48000 and 8000 to be Opus rates")
	}
	if IsOpusRate(44100) {
		t.Error("44100 is not an Opus rate")
	}
}

func TestResampleShortFirstChunk(t *testing.T) {
	r := New(44100, 48000, 2)

	if out := r.Resample([]int16{7}); len(out) != 0 {
		t.Errorf("expected no output for a partial frame, got %d samples", len(out))
	}

	out := r.Resample(make([]int16, 441*2))
	if len(out) == 0 || len(out)%2 != 0 {
		t.Errorf("expected whole stereo frames after a partial chunk, got %d samples", len(out))
	}
}
