package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programmerjake/midi-synth/graph"
)

func TestHzMiddleAIs440(t *testing.T) {
	assert.InDelta(t, 440, Hz(69), 1e-9)
}

func TestHzKeyFromHzRoundTrip(t *testing.T) {
	for _, k := range []float64{0, 60, 69, 127} {
		assert.InDelta(t, k, KeyFromHz(Hz(k)), 1e-6)
	}
}

func TestRelativeOneOctaveIsDouble(t *testing.T) {
	assert.InDelta(t, 2, Relative(12), 1e-9)
}

func TestValidKey(t *testing.T) {
	assert.True(t, ValidKey(0))
	assert.True(t, ValidKey(MaxKey))
	assert.False(t, ValidKey(-1))
	assert.False(t, ValidKey(MaxKey+1))
}

func defaultEnvelope() EnvelopeParams {
	return EnvelopeParams{
		AttackSpeed:     1,
		DecaySpeed:      1,
		SustainSpeed:    1,
		ReleaseSpeed:    1,
		SlideSpeed:      1,
		AftertouchSpeed: 1,
		AttackAmplitude: 1,
		DecayAmplitude:  0.5,
	}
}

func TestGenericKeyInstantaneousAttackSkipsToDecay(t *testing.T) {
	params := defaultEnvelope()
	params.AttackSpeed = InstantaneousAttack
	k := NewGenericKey(MiddleC, DefaultVelocity, 0, graph.Silence{}, MiddleC, params)
	assert.Equal(t, stageDecay, k.stage)
}

func TestGenericKeyFinishedOnlyAfterRelease(t *testing.T) {
	params := defaultEnvelope()
	k := NewGenericKey(MiddleC, DefaultVelocity, 0, graph.Silence{}, MiddleC, params)
	assert.False(t, k.Finished())
	k.AdvanceTime(100)
	assert.False(t, k.Finished())
	k.Stop(DefaultVelocity)
	k.AdvanceTime(100)
	assert.True(t, k.Finished())
}

func TestGenericKeyNotDuplicable(t *testing.T) {
	k := NewGenericKey(MiddleC, DefaultVelocity, 0, graph.Silence{}, MiddleC, defaultEnvelope())
	_, err := k.Duplicate()
	require.ErrorIs(t, err, graph.ErrNotDuplicable)
}

func TestGenericKeyPitchBendRetunesSource(t *testing.T) {
	src := graph.NewSine(1, 1, 0)
	k := NewGenericKey(MiddleC, DefaultVelocity, 0, src, MiddleC, defaultEnvelope())
	k.PitchBend(12)
	stabilize := k.pitchBendTimeScaler.StabilizeTime()
	require.Greater(t, stabilize, 0.0)
	k.pitchBendTimeScaler.AdvanceTime(stabilize)
	assert.InDelta(t, 2, k.pitchBendTimeScaler.Scale(), 1e-6)
}

func TestSilenceKeyStopMarksFinished(t *testing.T) {
	var k SilenceKey
	assert.False(t, k.Finished())
	k.Stop(DefaultVelocity)
	assert.True(t, k.Finished())
	assert.Zero(t, k.CurrentSample(0))
}

