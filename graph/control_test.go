package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeScaleReachesTargetAfterStabilizeTime(t *testing.T) {
	ts := NewTimeScale(Silence{}, 1)
	ts.SetScale(2, 1, Linear)
	st := ts.StabilizeTime()
	require.Greater(t, st, 0.0)
	ts.AdvanceTime(st)
	assert.InDelta(t, 2, ts.Scale(), 1e-9)
	assert.Zero(t, ts.StabilizeTime())
}

func TestTimeScaleOvershootClampsToTarget(t *testing.T) {
	ts := NewTimeScale(Silence{}, 1)
	ts.SetScale(2, 1, Linear)
	ts.AdvanceTime(1000)
	assert.Equal(t, 2.0, ts.Scale())
}

func TestAmplifyLinearRampHitsTarget(t *testing.T) {
	a := NewAmplify(&Sine{Freq: 0, Amp: 1, phase: math.Pi / 2}, 0)
	a.SetAmplitude(1, 0.5, Linear)
	a.AdvanceTime(2)
	assert.InDelta(t, 1, a.Amplitude(), 1e-9)
	assert.InDelta(t, 1, a.CurrentSample(0), 1e-6)
}

func TestAmplifyExponentialRampNeverOvershoots(t *testing.T) {
	a := NewAmplify(Silence{}, 1)
	a.SetAmplitude(0, 1, Exponential)
	for i := 0; i < 100; i++ {
		a.AdvanceTime(0.05)
		assert.GreaterOrEqual(t, a.Amplitude(), 0.0)
	}
}

func TestModifiedLogExpRoundTrip(t *testing.T) {
	for _, v := range []float64{1e-8, 1e-6, 1e-3, 0.5, 1, 10} {
		got := modifiedExp(modifiedLog(v))
		assert.InDelta(t, v, got, 1e-6)
	}
}

func TestTimeScaleDuplicatePreservesRampTarget(t *testing.T) {
	ts := NewTimeScale(Silence{}, 1)
	ts.SetScale(3, 0.5, Exponential)
	ts.AdvanceTime(0.1)
	dupAny, err := ts.Duplicate()
	require.NoError(t, err)
	dup := dupAny.(*TimeScale)
	assert.Equal(t, ts.Scale(), dup.Scale())
	assert.Equal(t, ts.StabilizeTime(), dup.StabilizeTime())
}
