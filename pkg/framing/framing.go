// ABOUTME: Length-prefixed Opus packet streams
// ABOUTME: Reads and writes [uint16 LE length][packet] sequences
// Package framing stores Opus packets as concatenated length-prefixed
// records: a little-endian uint16 byte count followed by the packet. No
// headers, no metadata.
package framing

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader reads length-prefixed packets from an io.Reader
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader that reads from r
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadPacket returns the next packet.
// Returns io.EOF when there are no more packets.
func (f *Reader) ReadPacket() ([]byte, error) {
	var size uint16
	if err := binary.Read(f.r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}

	packet := make([]byte, size)
	if _, err := io.ReadFull(f.r, packet); err != nil {
		return nil, err
	}
	return packet, nil
}

// Writer writes length-prefixed packets to an io.Writer
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer that writes to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WritePacket writes one packet with its length prefix
func (f *Writer) WritePacket(packet []byte) error {
	if len(packet) > math.MaxUint16 {
		return fmt.Errorf("packet of %d bytes exceeds frame limit", len(packet))
	}

	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(packet)))
	if _, err := f.w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := f.w.Write(packet)
	return err
}
