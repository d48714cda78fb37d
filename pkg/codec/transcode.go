// ABOUTME: Frame transcoding between PCM16 buffers and Opus packets
// ABOUTME: Encode and decode paths running on a worker's session
package codec

import (
	"fmt"

	"github.com/ospx/opuscp/pkg/audio"
)

// EncodeFrame encodes the PCM region buf[offset:offset+length] into one
// Opus packet.
//
// The encoder is created on first use from opts.SampleRate and
// opts.Channels; opts.Bitrate is applied on every call. An odd length drops
// the trailing byte. The packet is at most opts.MaxPacketSize bytes.
func (s *Session) EncodeFrame(opts Options, buf []byte, offset, length int) ([]byte, error) {
	mode, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	enc, err := s.Encoder(opts.SampleRate, mode)
	if err != nil {
		return nil, err
	}

	if err := enc.SetBitrate(opts.Bitrate); err != nil {
		return nil, fmt.Errorf("%w: set bitrate %d: %w", ErrEncode, opts.Bitrate, err)
	}

	if offset < 0 || length < 0 || offset > len(buf) || length > len(buf)-offset {
		return nil, fmt.Errorf("%w: pcm region [%d, %d) outside buffer of %d bytes",
			ErrEncode, offset, offset+length, len(buf))
	}
	pcm := audio.SamplesFromPCM(buf, offset, length)

	packet := make([]byte, opts.MaxPacketSize)
	n, err := enc.Encode(pcm, packet)
	if err != nil {
		return nil, fmt.Errorf("%w: %d samples: %w", ErrEncode, len(pcm), err)
	}
	return packet[:n], nil
}

// EncodeAll encodes the whole of pcm as one frame
func (s *Session) EncodeAll(opts Options, pcm []byte) ([]byte, error) {
	return s.EncodeFrame(opts, pcm, 0, len(pcm))
}

// DecodeFrame decodes one Opus packet into PCM16 little-endian bytes.
//
// The decode scratch holds opts.MaxFrameSize * opts.Channels samples using
// the raw channel count, so Channels == 0 leaves no room and the engine
// rejects the packet. The result holds decoded samples per channel times
// opts.Channels samples.
func (s *Session) DecodeFrame(opts Options, buf []byte) ([]byte, error) {
	mode, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	dec, err := s.Decoder(opts.SampleRate, mode)
	if err != nil {
		return nil, err
	}

	scratch := make([]int16, opts.MaxFrameSize*opts.Channels)
	perChannel, err := dec.Decode(buf, scratch)
	if err != nil {
		return nil, fmt.Errorf("%w: %d byte packet: %w", ErrDecode, len(buf), err)
	}

	n := perChannel * opts.Channels
	if n > len(scratch) {
		return nil, fmt.Errorf("%w: engine reported %d samples for a %d sample buffer",
			ErrDecode, n, len(scratch))
	}
	return audio.PCMFromSamples(scratch[:n]), nil
}
