// Package midi implements the note-level voice model: individual keys
// as ADSR state machines built from graph nodes, instrument selection
// by key range, and the per-channel note multiplexer.
package midi

import (
	"math"

	"github.com/programmerjake/midi-synth/graph"
)

const (
	// MaxKey is the highest valid MIDI key number.
	MaxKey = 127
	// MiddleC is the MIDI key number for middle C.
	MiddleC = 60
	// InvalidKey marks the absence of a key.
	InvalidKey = -1
	// MaxVelocity is the highest valid MIDI velocity.
	MaxVelocity = 127
	// DefaultVelocity is used as the unity reference for velocity and
	// aftertouch amplitude scaling (0x40 = 64).
	DefaultVelocity = 0x40
	// PitchBendSpeed is the fixed exponential ramp speed (change of the
	// natural log of the frequency ratio per second) applied whenever a
	// channel's pitch bend changes.
	PitchBendSpeed = 2
)

// ValidKey reports whether key is in the playable MIDI range.
func ValidKey(key int) bool {
	return key >= 0 && key <= MaxKey
}

// Hz converts a (possibly fractional) MIDI key number to frequency.
func Hz(midiKey float64) float64 {
	return 440.0 * math.Exp(math.Ln2*(midiKey-69)/12.0)
}

// KeyFromHz is the inverse of Hz.
func KeyFromHz(f float64) float64 {
	return math.Log(f/440.0)*(12.0*math.Log2E) + 69.0
}

// Relative returns the frequency ratio corresponding to a shift of
// midiKey semitones, i.e. 2^(midiKey/12).
func Relative(midiKey float64) float64 {
	return math.Pow(2.0, midiKey/12.0)
}

// Key is a currently-sounding (or releasing) note. It behaves as a
// graph.Source so it can be mixed directly into a channel's output,
// but is never duplicable: the ADSR stage and pending release are
// intrinsic to a single sounding note.
type Key interface {
	graph.Source
	// Aftertouch re-targets the velocity-stage amplitude.
	Aftertouch(velocity int)
	// Stop begins the release stage at the given note-off velocity.
	Stop(velocity int)
	// SlideTo retunes the key's pitch toward newMidiKey without
	// retriggering the envelope.
	SlideTo(newMidiKey, velocity int)
	// PitchBend applies a pitch offset in semitones, ramped at PitchBendSpeed.
	PitchBend(semitones float64)
	// Finished reports whether the key has released and gone silent.
	Finished() bool
}

// adsrStage names GenericKey's envelope state.
type adsrStage int

const (
	stageAttack adsrStage = iota
	stageDecay
	stageSustain
	stageRelease
)

// InstantaneousAttack, passed as attackSpeed, skips the attack stage
// and starts a GenericKey directly at attackAmplitude.
const InstantaneousAttack = -1

// EnvelopeParams configures a GenericKey's ADSR envelope and secondary
// controllers. AttackSpeed and DecaySpeed ramp linearly, in amplitude
// units per second; SustainSpeed, ReleaseSpeed and AftertouchSpeed ramp
// the amplitude exponentially and SlideSpeed ramps the frequency ratio
// exponentially, in natural-log units per second.
type EnvelopeParams struct {
	AttackSpeed          float64
	DecaySpeed           float64
	SustainSpeed         float64
	ReleaseSpeed         float64
	ReleaseSpeedVariance float64
	SlideSpeed           float64
	AftertouchSpeed      float64
	AttackAmplitude      float32
	DecayAmplitude       float32
}

// GenericKey is the standard Key implementation: a nested chain of
// graph.TimeScale and graph.Amplify controllers driving an underlying
// graph.Source, advanced through Attack, Decay, Sustain, and Release.
type GenericKey struct {
	pitchBendTimeScaler *graph.TimeScale
	timeScaler          *graph.TimeScale
	adsrAmplifier       *graph.Amplify
	velocityAmplifier   *graph.Amplify

	sourceBaseKey float64
	params        EnvelopeParams
	stage         adsrStage
}

// NewGenericKey constructs a sounding key. source is the underlying
// tone generator (already duplicated for this voice); sourceBaseKey is
// the MIDI key at which source plays at its natural pitch.
func NewGenericKey(midiKey, startVelocity int, pitchBendSemitones float64, source graph.Source, sourceBaseKey float64, params EnvelopeParams) *GenericKey {
	k := &GenericKey{sourceBaseKey: sourceBaseKey, params: params, stage: stageAttack}

	k.pitchBendTimeScaler = graph.NewTimeScale(source, Relative(pitchBendSemitones))
	k.timeScaler = graph.NewTimeScale(k.pitchBendTimeScaler, Relative(float64(midiKey)-sourceBaseKey))

	if params.AttackSpeed <= 0 {
		k.adsrAmplifier = graph.NewAmplify(k.timeScaler, float64(params.AttackAmplitude))
		k.stage = stageDecay
		k.adsrAmplifier.SetAmplitude(float64(params.DecayAmplitude), params.DecaySpeed, graph.Linear)
	} else {
		k.adsrAmplifier = graph.NewAmplify(k.timeScaler, 0)
		k.adsrAmplifier.SetAmplitude(float64(params.AttackAmplitude), params.AttackSpeed, graph.Linear)
	}

	k.velocityAmplifier = graph.NewAmplify(k.adsrAmplifier, float64(startVelocity)/DefaultVelocity)
	return k
}

func (k *GenericKey) Aftertouch(velocity int) {
	if k.params.AftertouchSpeed == 0 || k.stage == stageRelease {
		return
	}
	k.velocityAmplifier.SetAmplitude(float64(velocity)/DefaultVelocity, k.params.AftertouchSpeed, graph.Exponential)
}

func (k *GenericKey) Stop(velocity int) {
	k.stage = stageRelease
	effectiveSpeed := k.params.ReleaseSpeed * math.Pow(2.0, k.params.ReleaseSpeedVariance*(float64(velocity)/DefaultVelocity-1.0))
	k.adsrAmplifier.SetAmplitude(0, effectiveSpeed, graph.Exponential)
}

func (k *GenericKey) SlideTo(newMidiKey, velocity int) {
	if k.params.SlideSpeed == 0 || k.stage == stageRelease {
		return
	}
	k.timeScaler.SetScale(Relative(float64(newMidiKey)-k.sourceBaseKey), k.params.SlideSpeed, graph.Exponential)
}

func (k *GenericKey) PitchBend(semitones float64) {
	k.pitchBendTimeScaler.SetScale(Relative(semitones), PitchBendSpeed, graph.Exponential)
}

func (k *GenericKey) Finished() bool {
	return k.stage == stageRelease && k.adsrAmplifier.StabilizeTime() == 0
}

func (k *GenericKey) CurrentSample(channel int) float32 {
	return k.velocityAmplifier.CurrentSample(channel)
}

// stageAdvanceFloor matches the loop-decay silence floor: a stabilize
// time this small is treated as already-arrived to avoid an infinite
// loop of vanishingly small advances.
const stageAdvanceFloor = 1e-10

func (k *GenericKey) AdvanceTime(deltaTime float64) {
	for deltaTime > 0 {
		stabilizeTime := k.adsrAmplifier.StabilizeTime()
		if stabilizeTime > deltaTime {
			k.velocityAmplifier.AdvanceTime(deltaTime)
			return
		}
		if stabilizeTime > stageAdvanceFloor {
			k.velocityAmplifier.AdvanceTime(stabilizeTime)
			deltaTime -= stabilizeTime
		} else {
			stabilizeTime = 0
		}
		switch k.stage {
		case stageAttack:
			k.stage = stageDecay
			k.adsrAmplifier.SetAmplitude(float64(k.params.DecayAmplitude), k.params.DecaySpeed, graph.Linear)
		case stageDecay:
			k.stage = stageSustain
			k.adsrAmplifier.SetAmplitude(0, k.params.SustainSpeed, graph.Exponential)
		case stageSustain, stageRelease:
		}
		if stabilizeTime == 0 {
			k.velocityAmplifier.AdvanceTime(deltaTime)
			return
		}
	}
}

// Duplicate always fails: a sounding key's envelope stage is
// intrinsically single-owner.
func (k *GenericKey) Duplicate() (graph.Source, error) {
	return nil, graph.ErrNotDuplicable
}

// SilenceKey is a Key that never sounds, used when no instrument
// covers a played note. It fulfills the note-on/note-off protocol so
// callers never need a nil check.
type SilenceKey struct {
	stopped bool
}

func (k *SilenceKey) Aftertouch(velocity int)           {}
func (k *SilenceKey) Stop(velocity int)                 { k.stopped = true }
func (k *SilenceKey) SlideTo(newMidiKey, velocity int)  {}
func (k *SilenceKey) PitchBend(semitones float64)       {}
func (k *SilenceKey) Finished() bool                    { return k.stopped }
func (k *SilenceKey) CurrentSample(channel int) float32 { return 0 }
func (k *SilenceKey) AdvanceTime(deltaTime float64)     {}
func (k *SilenceKey) Duplicate() (graph.Source, error)  { return nil, graph.ErrNotDuplicable }
