// ABOUTME: Tests for length-prefixed packet streams
// ABOUTME: Tests write/read sequences and truncated input
package framing

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteThenRead(t *testing.T) {
	packets := [][]byte{{0xF8, 0xFF, 0xFE}, {}, {0x01}}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, p := range packets {
		if err := w.WritePacket(p); err != nil {
			t.Fatalf("WritePacket() failed: %v", err)
		}
	}

	expected := []byte{3, 0, 0xF8, 0xFF, 0xFE, 0, 0, 1, 0, 0x01}
	if diff := cmp.Diff(expected, buf.Bytes()); diff != "" {
		t.Fatalf("encoded stream mismatch (-want +got):\n%s", diff)
	}

	r := NewReader(&buf)
	for i, want := range packets {
		got, err := r.ReadPacket()
		if err != nil {
			t.Fatalf("packet %d: ReadPacket() failed: %v", i, err)
		}
		if !bytes.Equal(want, got) {
			t.Errorf("packet %d: expected %v, got %v", i, want, got)
		}
	}

	if _, err := r.ReadPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestReadTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{4, 0, 1, 2}))
	if _, err := r.ReadPacket(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestWriteOversized(t *testing.T) {
	w := NewWriter(io.Discard)
	if err := w.WritePacket(make([]byte, 70000)); err == nil {
		t.Error("expected error for oversized packet")
	}
}
