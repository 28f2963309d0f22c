package midi

import "github.com/programmerjake/midi-synth/graph"

// Instrument generates sounding Keys for note-on events.
type Instrument interface {
	// Name returns the instrument's display name.
	Name() string
	// Generate produces a new Key for the given note-on.
	Generate(midiKey, startVelocity int, pitchBendSemitones float64) Key
	// SupportsSlide reports whether a note already sounding at midiKey
	// can be retuned in place (MidiChannel "slide") rather than
	// retriggered.
	SupportsSlide(midiKey int) bool
}

// GenericInstrument wraps a single graph.Source template, duplicated
// once per sounding note, with one fixed envelope.
type GenericInstrument struct {
	name          string
	source        graph.Source
	sourceBaseKey float64
	params        EnvelopeParams
}

// NewGenericInstrument constructs an instrument that plays source
// (duplicated per voice) with the given envelope. sourceBaseKey is the
// MIDI key at which source plays at its natural, unshifted pitch.
func NewGenericInstrument(name string, source graph.Source, sourceBaseKey float64, params EnvelopeParams) *GenericInstrument {
	return &GenericInstrument{name: name, source: source, sourceBaseKey: sourceBaseKey, params: params}
}

func (g *GenericInstrument) Name() string { return g.name }

func (g *GenericInstrument) Generate(midiKey, startVelocity int, pitchBendSemitones float64) Key {
	voice, err := g.source.Duplicate()
	if err != nil {
		return &SilenceKey{}
	}
	return NewGenericKey(midiKey, startVelocity, pitchBendSemitones, voice, g.sourceBaseKey, g.params)
}

func (g *GenericInstrument) SupportsSlide(midiKey int) bool {
	return g.params.SlideSpeed > 0
}

// InstrumentRange binds an Instrument to a contiguous span of MIDI
// keys within a SelectInstrument.
type InstrumentRange struct {
	Instrument       Instrument
	StartKey, EndKey int
}

// distance returns 0 if key falls within the range, otherwise the
// number of semitones to the nearer edge.
func (r InstrumentRange) distance(key int) int {
	switch {
	case key >= r.StartKey && key <= r.EndKey:
		return 0
	case key < r.StartKey:
		return r.StartKey - key
	default:
		return key - r.EndKey
	}
}

func (r InstrumentRange) good() bool {
	return r.Instrument != nil && r.StartKey <= r.EndKey
}

// SelectInstrument dispatches note-on events to one of several
// sub-instruments by key range, falling back to the sub-instrument
// whose range lies nearest the played key when no range covers it
// exactly. A key with no ranges registered at all plays as silence.
type SelectInstrument struct {
	name   string
	ranges []InstrumentRange
}

// NewSelectInstrument returns an empty range selector.
func NewSelectInstrument(name string) *SelectInstrument {
	return &SelectInstrument{name: name}
}

func (s *SelectInstrument) Name() string { return s.name }

// AddRange registers r, ignoring it if it is degenerate (nil
// instrument or StartKey > EndKey).
func (s *SelectInstrument) AddRange(r InstrumentRange) {
	if r.good() {
		s.ranges = append(s.ranges, r)
	}
}

func (s *SelectInstrument) pick(key int) Instrument {
	if len(s.ranges) == 0 {
		return nil
	}
	best := s.ranges[0]
	minDistance := best.distance(key)
	if minDistance <= 0 {
		return best.Instrument
	}
	for _, r := range s.ranges[1:] {
		d := r.distance(key)
		if d <= 0 {
			return r.Instrument
		}
		if d < minDistance {
			minDistance = d
			best = r
		}
	}
	return best.Instrument
}

func (s *SelectInstrument) Generate(midiKey, startVelocity int, pitchBendSemitones float64) Key {
	instrument := s.pick(midiKey)
	if instrument == nil {
		return &SilenceKey{}
	}
	return instrument.Generate(midiKey, startVelocity, pitchBendSemitones)
}

func (s *SelectInstrument) SupportsSlide(midiKey int) bool {
	instrument := s.pick(midiKey)
	if instrument == nil {
		return true
	}
	return instrument.SupportsSlide(midiKey)
}
