// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Streams interleaved int16 chunks, keeping the fractional position
package resample

// OpusRates are the sample rates the Opus engine accepts
var OpusRates = []int{8000, 12000, 16000, 24000, 48000}

// IsOpusRate reports whether rate is accepted by the Opus engine
func IsOpusRate(rate int) bool {
	for _, r := range OpusRates {
		if r == rate {
			return true
		}
	}
	return false
}

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
	carry      []int16 // last input frame of the previous chunk
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts one chunk of interleaved input to the output rate.
// Consecutive chunks interpolate across their boundary.
func (r *Resampler) Resample(input []int16) []int16 {
	if r.inputRate == r.outputRate {
		return append([]int16(nil), input...)
	}
	if len(input) == 0 {
		return nil
	}

	// Prepend the carried frame so interpolation spans chunk boundaries
	frames := append(append([]int16(nil), r.carry...), input...)
	inputFrames := len(frames) / r.channels
	if inputFrames == 0 {
		return nil
	}

	output := make([]int16, 0, r.OutputSamplesNeeded(len(frames)))
	for {
		idx := int(r.position)
		if idx >= inputFrames-1 {
			break
		}
		frac := r.position - float64(idx)

		for ch := 0; ch < r.channels; ch++ {
			s1 := float64(frames[idx*r.channels+ch])
			s2 := float64(frames[(idx+1)*r.channels+ch])
			output = append(output, int16(s1*(1.0-frac)+s2*frac))
		}
		r.position += r.ratio
	}

	// Keep the last frame and rebase the position onto it
	last := inputFrames - 1
	r.carry = append(r.carry[:0], frames[last*r.channels:(last+1)*r.channels]...)
	r.position -= float64(last)

	return output
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0
	r.carry = r.carry[:0]
}

// OutputSamplesNeeded estimates how many output samples inputSamples produce
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames)/r.ratio) + 1
	return outputFrames * r.channels
}
