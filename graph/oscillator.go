package graph

import "math"

// Sine is a pure sine oscillator: amplitude * sin(phase).
type Sine struct {
	Freq, Amp float64
	phase     float64
}

// NewSine constructs a sine oscillator starting at the given phase (radians).
func NewSine(freq, amp, phase float64) *Sine {
	return &Sine{Freq: freq, Amp: amp, phase: phase}
}

func (s *Sine) CurrentSample(channel int) float32 {
	return float32(s.Amp * math.Sin(s.phase))
}

func (s *Sine) AdvanceTime(dt float64) {
	s.phase += dt * s.Freq * 2 * math.Pi
	s.phase = math.Mod(s.phase, 2*math.Pi)
}

func (s *Sine) Duplicate() (Source, error) {
	return NewSine(s.Freq, s.Amp, s.phase), nil
}

// Phase returns the oscillator's current phase in radians, in [0, 2pi).
func (s *Sine) Phase() float64 { return s.phase }

// Triangle is a piecewise-linear triangle oscillator.
type Triangle struct {
	Freq, Amp float64
	cyclePos  float64
}

// NewTriangle constructs a triangle oscillator. phase is in radians, as
// with Sine, and is converted to the internal [0, 1) cycle position.
func NewTriangle(freq, amp, phase float64) *Triangle {
	cyclePos := phase / (2 * math.Pi)
	cyclePos -= math.Floor(cyclePos)
	return &Triangle{Freq: freq, Amp: amp, cyclePos: cyclePos}
}

func (t *Triangle) CurrentSample(channel int) float32 {
	switch {
	case t.cyclePos < 0.25:
		return float32(t.Amp * 4 * t.cyclePos)
	case t.cyclePos > 0.75:
		return float32(t.Amp * (4*t.cyclePos - 4))
	default:
		return float32(t.Amp * (2 - 4*t.cyclePos))
	}
}

func (t *Triangle) AdvanceTime(dt float64) {
	t.cyclePos += dt * t.Freq
	t.cyclePos -= math.Floor(t.cyclePos)
}

func (t *Triangle) Duplicate() (Source, error) {
	return NewTriangle(t.Freq, t.Amp, t.cyclePos*2*math.Pi), nil
}

// CyclePosition returns the current position in [0, 1) within the cycle.
func (t *Triangle) CyclePosition() float64 { return t.cyclePos }

// Silence is the zero source: it never produces anything and never
// advances any internal state.
type Silence struct{}

func (Silence) CurrentSample(channel int) float32 { return 0 }
func (Silence) AdvanceTime(dt float64)             {}
func (Silence) Duplicate() (Source, error)         { return Silence{}, nil }
