package midi

import (
	"github.com/programmerjake/midi-synth/graph"
)

// Channel multiplexes up to MaxKey+1 simultaneously sounding notes
// from a single Instrument into one mixed graph.Source, implementing
// the note-on/note-off/slide/aftertouch/pitch-bend/volume protocol of
// a single MIDI channel.
type Channel struct {
	mixer      *graph.Mix
	amplifier  *graph.Amplify
	instrument Instrument

	keys        [MaxKey + 1]Key
	playingKeys []Key

	slideFromKey              int
	currentPitchBendSemitones float64
}

// NewChannel constructs a channel that plays notes through instrument.
func NewChannel(instrument Instrument) *Channel {
	mixer := graph.NewMix()
	c := &Channel{
		mixer:        mixer,
		amplifier:    graph.NewAmplify(mixer, 1.0),
		instrument:   instrument,
		slideFromKey: InvalidKey,
	}
	return c
}

// Instrument returns the channel's current instrument.
func (c *Channel) Instrument() Instrument { return c.instrument }

// SetInstrument switches the instrument used for subsequent note-on
// events. Already-sounding notes are unaffected.
func (c *Channel) SetInstrument(instrument Instrument) {
	c.instrument = instrument
}

func (c *Channel) removeKey(midiKey int) {
	c.keys[midiKey] = nil
}

// NoteOff stops the note sounding at midiKey, if any, at the given
// release velocity.
func (c *Channel) NoteOff(midiKey int, velocity int) {
	if !ValidKey(midiKey) {
		return
	}
	key := c.keys[midiKey]
	if key == nil {
		return
	}
	key.Stop(velocity)
	c.removeKey(midiKey)
}

// SlideFrom marks midiKey as the source of the next slide: the next
// NoteOn will retune that key's voice instead of retriggering a new
// one, if the instrument allows it.
func (c *Channel) SlideFrom(midiKey int) {
	if !ValidKey(midiKey) {
		return
	}
	c.slideFromKey = midiKey
}

// NoteOn starts a note at midiKey with the given velocity. A velocity
// of zero is treated as a note-off, matching the MIDI wire convention.
func (c *Channel) NoteOn(midiKey int, velocity int) {
	if !ValidKey(midiKey) {
		return
	}
	if velocity == 0 {
		c.NoteOff(midiKey, DefaultVelocity)
		return
	}
	if c.keys[midiKey] != nil {
		c.keys[midiKey].Stop(DefaultVelocity)
		c.removeKey(midiKey)
	}
	if ValidKey(c.slideFromKey) && c.keys[c.slideFromKey] != nil {
		key := c.keys[c.slideFromKey]
		c.keys[c.slideFromKey] = nil
		c.keys[midiKey] = key
		key.SlideTo(midiKey, velocity)
		c.slideFromKey = InvalidKey
		return
	}
	startKey := midiKey
	if ValidKey(c.slideFromKey) && c.instrument.SupportsSlide(c.slideFromKey) {
		startKey = c.slideFromKey
	}
	c.slideFromKey = InvalidKey
	key := c.instrument.Generate(startKey, velocity, c.currentPitchBendSemitones)
	if startKey != midiKey {
		key.SlideTo(midiKey, velocity)
	}
	c.playingKeys = append(c.playingKeys, key)
	c.mixer.Insert(key, 1.0)
	c.keys[midiKey] = key
}

// Aftertouch applies polyphonic aftertouch to the note at midiKey.
func (c *Channel) Aftertouch(midiKey int, velocity int) {
	if !ValidKey(midiKey) {
		return
	}
	key := c.keys[midiKey]
	if key == nil {
		return
	}
	key.Aftertouch(velocity)
}

// AftertouchAll applies channel-wide aftertouch to every sounding note.
func (c *Channel) AftertouchAll(velocity int) {
	for _, key := range c.keys {
		if key != nil {
			key.Aftertouch(velocity)
		}
	}
}

// channelVolumeRampSpeed is the fixed exponential ramp speed applied
// to SetVolume while notes are sounding.
const channelVolumeRampSpeed = 10

// SetVolume changes the channel's overall output gain. If nothing is
// currently sounding the change is instantaneous; otherwise it ramps
// exponentially so an in-progress note doesn't click.
func (c *Channel) SetVolume(newVolume float64) {
	if len(c.playingKeys) == 0 {
		c.amplifier = graph.NewAmplify(c.mixer, newVolume)
	} else {
		c.amplifier.SetAmplitude(newVolume, channelVolumeRampSpeed, graph.Exponential)
	}
}

// PitchBend applies a channel-wide pitch offset, in semitones, to
// every currently sounding note, and to notes started afterward until
// the next PitchBend call.
func (c *Channel) PitchBend(newPitchBendSemitones float64) {
	c.currentPitchBendSemitones = newPitchBendSemitones
	for _, key := range c.playingKeys {
		key.PitchBend(c.currentPitchBendSemitones)
	}
}

func (c *Channel) AdvanceTime(deltaTime float64) {
	c.amplifier.AdvanceTime(deltaTime)
	live := c.playingKeys[:0]
	for _, key := range c.playingKeys {
		if key.Finished() {
			c.mixer.EraseChild(key)
		} else {
			live = append(live, key)
		}
	}
	c.playingKeys = live
}

func (c *Channel) CurrentSample(channel int) float32 {
	return c.amplifier.CurrentSample(channel)
}

// Duplicate always fails: a channel's live voice set has no copy
// semantics.
func (c *Channel) Duplicate() (graph.Source, error) {
	return nil, graph.ErrNotDuplicable
}
