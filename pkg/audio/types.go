// ABOUTME: Audio type definitions
// ABOUTME: Defines PCM format and 16-bit little-endian sample conversions
package audio

// BytesPerSample is the width of one PCM16 sample
const BytesPerSample = 2

// Format describes an interleaved PCM16 stream
type Format struct {
	SampleRate int
	Channels   int
}

// FrameBytes returns the PCM byte length of a frame of frameSize samples per channel
func (f Format) FrameBytes(frameSize int) int {
	return frameSize * f.Channels * BytesPerSample
}

// SamplesFromPCM reads length bytes starting at offset as little-endian int16
// samples. Only whole samples are produced: a trailing odd byte is ignored.
// The region must lie inside buf.
func SamplesFromPCM(buf []byte, offset, length int) []int16 {
	samples := make([]int16, length/BytesPerSample)
	for i := range samples {
		idx := offset + BytesPerSample*i
		samples[i] = int16(uint16(buf[idx]) | uint16(buf[idx+1])<<8)
	}
	return samples
}

// PCMFromSamples writes samples as little-endian bytes
func PCMFromSamples(samples []int16) []byte {
	out := make([]byte, len(samples)*BytesPerSample)
	PutSamples(out, samples)
	return out
}

// PutSamples writes samples into dst, which must hold 2*len(samples) bytes
func PutSamples(dst []byte, samples []int16) {
	for i, s := range samples {
		dst[2*i] = byte(s & 0xFF)
		dst[2*i+1] = byte((s >> 8) & 0xFF)
	}
}

// ScaleToInt16 converts a sample of the given bit depth to 16-bit range
func ScaleToInt16(sample int32, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return int16(sample)
	case bitDepth > 16:
		return int16(sample >> (bitDepth - 16))
	default:
		return int16(sample << (16 - bitDepth))
	}
}

// Remix converts interleaved samples between mono and stereo.
// Stereo to mono averages the two channels; mono to stereo duplicates.
func Remix(samples []int16, from, to int) []int16 {
	if from == to || from <= 0 || to <= 0 {
		return samples
	}
	frames := len(samples) / from
	out := make([]int16, frames*to)
	for i := 0; i < frames; i++ {
		var sum int32
		for ch := 0; ch < from; ch++ {
			sum += int32(samples[i*from+ch])
		}
		mixed := int16(sum / int32(from))
		for ch := 0; ch < to; ch++ {
			if to > from && ch < from {
				out[i*to+ch] = samples[i*from+ch]
			} else {
				out[i*to+ch] = mixed
			}
		}
	}
	return out
}
