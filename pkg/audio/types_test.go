// ABOUTME: Tests for audio types
// ABOUTME: Tests PCM16 byte/sample conversion functions
package audio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSamplesFromPCM(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		offset   int
		length   int
		expected []int16
	}{
		{"little endian", []byte{0x34, 0x12}, 0, 2, []int16{0x1234}},
		{"negative", []byte{0xFF, 0xFF, 0x00, 0x80}, 0, 4, []int16{-1, -32768}},
		{"offset", []byte{0xAA, 0x34, 0x12}, 1, 2, []int16{0x1234}},
		{"odd length drops last byte", []byte{0x01, 0x00, 0x02, 0x00, 0x03}, 0, 5, []int16{1, 2}},
		{"single byte", []byte{0x7F}, 0, 1, []int16{}},
		{"empty", nil, 0, 0, []int16{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SamplesFromPCM(tt.buf, tt.offset, tt.length)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("SamplesFromPCM() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPCMFromSamples(t *testing.T) {
	tests := []struct {
		name     string
		samples  []int16
		expected []byte
	}{
		{"little endian", []int16{0x1234}, []byte{0x34, 0x12}},
		{"max", []int16{32767}, []byte{0xFF, 0x7F}},
		{"min", []int16{-32768}, []byte{0x00, 0x80}},
		{"minus one", []int16{-1}, []byte{0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PCMFromSamples(tt.samples)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("PCMFromSamples() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripPCM16(t *testing.T) {
	samples := []int16{0, 100, -100, 1000, -1000, 32767, -32768}

	result := SamplesFromPCM(PCMFromSamples(samples), 0, len(samples)*2)
	if diff := cmp.Diff(samples, result); diff != "" {
		t.Errorf("round-trip failed (-want +got):\n%s", diff)
	}
}

func TestScaleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		sample   int32
		bitDepth int
		expected int16
	}{
		{"16 bit passthrough", -1234, 16, -1234},
		{"24 bit", 0x123456, 24, 0x1234},
		{"24 bit negative", -256, 24, -1},
		{"8 bit", 0x12, 8, 0x1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScaleToInt16(tt.sample, tt.bitDepth)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRemix(t *testing.T) {
	stereo := []int16{100, 300, -100, -300}

	mono := Remix(stereo, 2, 1)
	if diff := cmp.Diff([]int16{200, -200}, mono); diff != "" {
		t.Errorf("stereo to mono mismatch (-want +got):\n%s", diff)
	}

	back := Remix([]int16{5, 7}, 1, 2)
	if diff := cmp.Diff([]int16{5, 5, 7, 7}, back); diff != "" {
		t.Errorf("mono to stereo mismatch (-want +got):\n%s", diff)
	}

	same := Remix(stereo, 2, 2)
	if diff := cmp.Diff(stereo, same); diff != "" {
		t.Errorf("same layout mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameBytes(t *testing.T) {
	f := Format{SampleRate: 48000, Channels: 2}
	if got := f.FrameBytes(960); got != 3840 {
		t.Errorf("expected 3840, got %d", got)
	}
}
