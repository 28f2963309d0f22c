package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/programmerjake/midi-synth/graph"
)

func TestGenericInstrumentGeneratesKey(t *testing.T) {
	inst := NewGenericInstrument("test", graph.NewSine(1, 1, 0), MiddleC, defaultEnvelope())
	key := inst.Generate(MiddleC, DefaultVelocity, 0)
	assert.NotNil(t, key)
	assert.False(t, key.Finished())
}

func TestSelectInstrumentPicksExactRange(t *testing.T) {
	low := NewGenericInstrument("low", graph.NewSine(1, 1, 0), MiddleC, defaultEnvelope())
	high := NewGenericInstrument("high", graph.NewSine(1, 1, 0), MiddleC, defaultEnvelope())
	sel := NewSelectInstrument("split")
	sel.AddRange(InstrumentRange{Instrument: low, StartKey: 0, EndKey: 59})
	sel.AddRange(InstrumentRange{Instrument: high, StartKey: 60, EndKey: 127})

	assert.Equal(t, low, sel.pick(30))
	assert.Equal(t, high, sel.pick(90))
}

func TestSelectInstrumentPicksNearestRangeOutsideCoverage(t *testing.T) {
	a := NewGenericInstrument("a", graph.NewSine(1, 1, 0), MiddleC, defaultEnvelope())
	b := NewGenericInstrument("b", graph.NewSine(1, 1, 0), MiddleC, defaultEnvelope())
	sel := NewSelectInstrument("gapped")
	sel.AddRange(InstrumentRange{Instrument: a, StartKey: 0, EndKey: 10})
	sel.AddRange(InstrumentRange{Instrument: b, StartKey: 50, EndKey: 60})

	assert.Equal(t, a, sel.pick(20)) // distance 10 to a, 30 to b
	assert.Equal(t, b, sel.pick(40)) // distance 30 to a, 10 to b
}

func TestSelectInstrumentEmptyGeneratesSilence(t *testing.T) {
	sel := NewSelectInstrument("empty")
	key := sel.Generate(MiddleC, DefaultVelocity, 0)
	_, isSilence := key.(*SilenceKey)
	assert.True(t, isSilence)
}

func TestInstrumentRangeIgnoredWhenDegenerate(t *testing.T) {
	sel := NewSelectInstrument("degenerate")
	sel.AddRange(InstrumentRange{Instrument: nil, StartKey: 0, EndKey: 10})
	sel.AddRange(InstrumentRange{Instrument: NewGenericInstrument("x", graph.NewSine(1, 1, 0), MiddleC, defaultEnvelope()), StartKey: 10, EndKey: 5})
	assert.Empty(t, sel.ranges)
}
