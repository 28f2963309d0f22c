package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programmerjake/midi-synth/graph"
)

func testInstrument() Instrument {
	return NewGenericInstrument("test", graph.NewSine(440, 1, 0), MiddleC, defaultEnvelope())
}

func TestChannelNoteOnThenOffCleansUpKeySlot(t *testing.T) {
	ch := NewChannel(testInstrument())
	ch.NoteOn(MiddleC, DefaultVelocity)
	assert.NotNil(t, ch.keys[MiddleC])
	ch.NoteOff(MiddleC, DefaultVelocity)
	assert.Nil(t, ch.keys[MiddleC])
}

func TestChannelNoteOnZeroVelocityActsAsNoteOff(t *testing.T) {
	ch := NewChannel(testInstrument())
	ch.NoteOn(MiddleC, DefaultVelocity)
	ch.NoteOn(MiddleC, 0)
	assert.Nil(t, ch.keys[MiddleC])
}

func TestChannelAdvanceTimeRemovesFinishedVoices(t *testing.T) {
	ch := NewChannel(testInstrument())
	ch.NoteOn(MiddleC, DefaultVelocity)
	ch.NoteOff(MiddleC, DefaultVelocity)
	require.Len(t, ch.playingKeys, 1)
	for i := 0; i < 1000; i++ {
		ch.AdvanceTime(1)
	}
	assert.Empty(t, ch.playingKeys)
}

func TestChannelSlideRetunesExistingVoice(t *testing.T) {
	ch := NewChannel(testInstrument())
	ch.NoteOn(MiddleC, DefaultVelocity)
	before := ch.keys[MiddleC]
	ch.SlideFrom(MiddleC)
	ch.NoteOn(MiddleC+2, DefaultVelocity)
	assert.Same(t, before, ch.keys[MiddleC+2])
	assert.Nil(t, ch.keys[MiddleC])
}

func TestChannelInvalidKeyIsIgnored(t *testing.T) {
	ch := NewChannel(testInstrument())
	ch.NoteOn(200, DefaultVelocity)
	ch.NoteOff(-1, DefaultVelocity)
	assert.Empty(t, ch.playingKeys)
}

func TestChannelNotDuplicable(t *testing.T) {
	ch := NewChannel(testInstrument())
	_, err := ch.Duplicate()
	require.ErrorIs(t, err, graph.ErrNotDuplicable)
}
