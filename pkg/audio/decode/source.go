// ABOUTME: Source interface and file dispatch
// ABOUTME: Picks an MP3, FLAC or raw PCM source by file extension
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ospx/opuscp/pkg/audio"
)

// Source provides interleaved PCM16 samples
type Source interface {
	// Read fills samples and returns how many were read; io.EOF at the end
	Read(samples []int16) (int, error)

	// Format returns the sample rate and channel count of the samples
	Format() audio.Format

	// Close releases the underlying reader
	Close() error
}

// Open opens an audio file by extension. raw describes .pcm/.raw files,
// which carry no header.
func Open(path string, raw audio.Format) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var src Source
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		src, err = NewMP3(f)
	case ".flac":
		src, err = NewFLAC(f)
	case ".pcm", ".raw":
		src, err = NewPCM(f, raw)
	default:
		err = fmt.Errorf("unsupported audio format: %s (supported: .mp3, .flac, .pcm, .raw)", ext)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// ReadAll drains src
func ReadAll(src Source) ([]int16, error) {
	var out []int16
	buf := make([]int16, 8192)
	for {
		n, err := src.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

// readPCM16 reads whole samples from r into samples
func readPCM16(r io.Reader, samples []int16) (int, error) {
	buf := make([]byte, len(samples)*audio.BytesPerSample)
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	got := audio.SamplesFromPCM(buf, 0, n)
	copy(samples, got)
	if len(got) > 0 && errors.Is(err, io.EOF) {
		// deliver the tail now, EOF on the next call
		return len(got), nil
	}
	return len(got), err
}
