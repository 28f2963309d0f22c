package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monoData(values []float32, looped bool, loopStart int, decay float32) *AudioData {
	frames := make([]Frame, len(values))
	for i, v := range values {
		frames[i] = Frame{v, v}
	}
	return NewAudioData(frames, 1.0, looped, loopStart, decay)
}

func TestSampledNonLoopedFinishesAtBufferEnd(t *testing.T) {
	data := monoData([]float32{1, 0.5, 0}, false, 0, 1)
	s := NewSampled(data)
	assert.False(t, s.Finished())
	s.AdvanceTime(3)
	assert.True(t, s.Finished())
	assert.Zero(t, s.CurrentSample(0))
}

// TestSampledNonLoopedAmplitudeIsConsistent documents a deliberate
// behavioral correction relative to a literal reading of the original
// C++ SampledAudioSource::getCurrentSample: its non-looped branch
// discards the running amplitude multiplier (it assigns raw buffer
// values straight to sample1/sample2 instead of amplitude-scaled
// ones), while the looped branch does scale by amplitude. Because
// amplitude only ever changes via looping, a non-looped buffer's
// amplitude is always 1 in the original, making the two branches
// agree in practice despite the discrepancy in the code. This port
// applies amplitude consistently in both branches instead of
// reproducing the discrepancy.
func TestSampledNonLoopedAmplitudeIsConsistent(t *testing.T) {
	data := monoData([]float32{2, 4}, false, 0, 1)
	s := NewSampled(data)
	s.amplitude = 0.5 // cannot happen via AdvanceTime on a non-looped buffer; set directly to probe the formula
	got := s.CurrentSample(0)
	assert.InDelta(t, 2.0, got, 1e-6) // at t=0 the weighting reads frame 1: 0.5 * 4, not the raw un-scaled 4
}

func TestSampledLoopDecaysAmplitudeEachWraparound(t *testing.T) {
	data := monoData([]float32{1, 1}, true, 0, 0.5)
	s := NewSampled(data)
	s.AdvanceTime(2) // exactly one full loop
	assert.InDelta(t, 0.5, s.Amplitude(), 1e-6)
	s.AdvanceTime(2)
	assert.InDelta(t, 0.25, s.Amplitude(), 1e-6)
}

func TestSampledLoopGoesSilentBelowFloor(t *testing.T) {
	data := monoData([]float32{1, 1}, true, 0, 0.01)
	s := NewSampled(data)
	for i := 0; i < 20; i++ {
		s.AdvanceTime(2)
	}
	assert.LessOrEqual(t, s.Amplitude(), float32(loopSilenceFloor))
	assert.Zero(t, s.CurrentSample(0))
}

func TestSampledInterpolatesBetweenFrames(t *testing.T) {
	data := monoData([]float32{0, 1}, false, 0, 1)
	s := NewSampled(data)
	s.AdvanceTime(0.5)
	assert.InDelta(t, 0.5, s.CurrentSample(0), 1e-6)
}

func TestSampledDuplicatePreservesState(t *testing.T) {
	data := monoData([]float32{1, 1, 1}, true, 0, 0.5)
	s := NewSampled(data)
	s.AdvanceTime(2.5)
	dupAny, err := s.Duplicate()
	require.NoError(t, err)
	dup := dupAny.(*Sampled)
	assert.Equal(t, s.CurrentSample(0), dup.CurrentSample(0))
	assert.Equal(t, s.Amplitude(), dup.Amplitude())
}
