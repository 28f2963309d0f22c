package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type constSource float32

func (c constSource) CurrentSample(channel int) float32 { return float32(c) }
func (c constSource) AdvanceTime(dt float64)            {}
func (c constSource) Duplicate() (Source, error)        { return c, nil }

func TestMixSumsWeightedChildren(t *testing.T) {
	m := NewMix()
	m.Insert(constSource(1), 2)
	m.Insert(constSource(3), 0.5)
	assert.InDelta(t, 3.5, m.CurrentSample(0), 1e-9)
}

func TestMixEraseByHandle(t *testing.T) {
	m := NewMix()
	h := m.Insert(constSource(1), 1)
	m.Insert(constSource(2), 1)
	assert.True(t, m.EraseHandle(h))
	assert.InDelta(t, 2, m.CurrentSample(0), 1e-9)
	assert.Equal(t, 1, m.Len())
}

func TestMixEraseByChild(t *testing.T) {
	m := NewMix()
	c := constSource(5)
	m.Insert(c, 1)
	assert.True(t, m.EraseChild(c))
	assert.Zero(t, m.CurrentSample(0))
}

func TestEmptyMixIsSilent(t *testing.T) {
	m := NewMix()
	assert.Zero(t, m.CurrentSample(0))
}

func TestEmptyModulateIsUnity(t *testing.T) {
	m := NewModulate()
	assert.Equal(t, float32(1), m.CurrentSample(0))
}

func TestModulateMultipliesChildren(t *testing.T) {
	m := NewModulate()
	m.Insert(constSource(2))
	m.Insert(constSource(3))
	assert.Equal(t, float32(6), m.CurrentSample(0))
}

func TestPanScalesPerChannel(t *testing.T) {
	p := NewPan(constSource(1), [NOut]float32{0.25, 0.75})
	assert.InDelta(t, 0.25, p.CurrentSample(0), 1e-9)
	assert.InDelta(t, 0.75, p.CurrentSample(1), 1e-9)
}

func TestPanPassesThroughOutOfRangeChannel(t *testing.T) {
	p := NewPan(constSource(1), [NOut]float32{0.25, 0.75})
	assert.Equal(t, float32(1), p.CurrentSample(5))
}

func TestMixDuplicateCopiesChildrenIndependently(t *testing.T) {
	m := NewMix()
	m.Insert(constSource(1), 1)
	dupAny, err := m.Duplicate()
	assert.NoError(t, err)
	dup := dupAny.(*Mix)
	assert.Equal(t, m.CurrentSample(0), dup.CurrentSample(0))
	m.Insert(constSource(9), 1)
	assert.NotEqual(t, m.CurrentSample(0), dup.CurrentSample(0))
}
