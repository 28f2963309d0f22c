package instrumentdir

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/programmerjake/midi-synth/graph"
	"github.com/programmerjake/midi-synth/midi"
)

// PatchBank is the structured, human-editable replacement for the
// legacy keys.txt format: one YAML file describing an entire
// SelectInstrument's worth of key ranges.
type PatchBank struct {
	Name    string       `yaml:"name"`
	Patches []PatchEntry `yaml:"patches"`
}

// PatchEntry describes one key-range instrument and its samples.
type PatchEntry struct {
	StartKey      int           `yaml:"startKey"`
	EndKey        int           `yaml:"endKey"`
	SourceBaseKey float64       `yaml:"sourceBaseKey"`
	Envelope      PatchEnvelope `yaml:"envelope"`
	Samples       []PatchSample `yaml:"samples"`
}

// PatchEnvelope mirrors midi.EnvelopeParams in a YAML-friendly shape.
// AttackSpeed may be omitted (or set to a negative number) to request
// midi.InstantaneousAttack.
type PatchEnvelope struct {
	AttackSpeed          float64 `yaml:"attackSpeed"`
	DecaySpeed           float64 `yaml:"decaySpeed"`
	SustainSpeed         float64 `yaml:"sustainSpeed"`
	ReleaseSpeed         float64 `yaml:"releaseSpeed"`
	ReleaseSpeedVariance float64 `yaml:"releaseSpeedVariance"`
	SlideSpeed           float64 `yaml:"slideSpeed"`
	AftertouchSpeed      float64 `yaml:"aftertouchSpeed"`
	AttackAmplitude      float32 `yaml:"attackAmplitude"`
	DecayAmplitude       float32 `yaml:"decayAmplitude"`
}

// PatchSample is one WAV file mixed into a PatchEntry's key source,
// with its own loop point and per-channel pan.
type PatchSample struct {
	File               string              `yaml:"file"`
	LoopStart          int                 `yaml:"loopStart"`
	LoopEnd            int                 `yaml:"loopEnd"`
	LoopDecayAmplitude float32             `yaml:"loopDecayAmplitude"`
	ChannelAmplitudes  [graph.NOut]float32 `yaml:"channelAmplitudes"`
}

// LoadPatchBankFile parses a PatchBank from path and builds the
// resulting midi.Instrument, resolving sample file paths relative to
// path's directory.
func LoadPatchBankFile(path string) (midi.Instrument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("instrumentdir: read %s: %w", path, err)
	}
	var bank PatchBank
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("instrumentdir: parse %s: %w", path, err)
	}
	return bank.Build(filepath.Dir(path))
}

// Build constructs the midi.Instrument described by bank, resolving
// sample file paths relative to dir.
func (bank PatchBank) Build(dir string) (midi.Instrument, error) {
	instrument := midi.NewSelectInstrument(bank.Name)
	for _, patch := range bank.Patches {
		keySources := graph.NewMix()
		for _, sample := range patch.Samples {
			audioData, err := DecodeWAV(filepath.Join(dir, sample.File))
			if err != nil {
				return nil, err
			}
			if sample.LoopEnd > 0 {
				decay := sample.LoopDecayAmplitude
				if decay <= 0 {
					decay = 1
				}
				audioData = ApplyLoop(audioData, sample.LoopStart, sample.LoopEnd, decay)
			}
			sampled := graph.NewSampled(audioData)
			keySources.Insert(graph.NewPan(sampled, sample.ChannelAmplitudes), 1.0)
		}
		attackSpeed := patch.Envelope.AttackSpeed
		if attackSpeed < 0 {
			attackSpeed = midi.InstantaneousAttack
		}
		envelope := midi.EnvelopeParams{
			AttackSpeed:          attackSpeed,
			DecaySpeed:           patch.Envelope.DecaySpeed,
			SustainSpeed:         patch.Envelope.SustainSpeed,
			ReleaseSpeed:         patch.Envelope.ReleaseSpeed,
			ReleaseSpeedVariance: patch.Envelope.ReleaseSpeedVariance,
			SlideSpeed:           patch.Envelope.SlideSpeed,
			AftertouchSpeed:      patch.Envelope.AftertouchSpeed,
			AttackAmplitude:      patch.Envelope.AttackAmplitude,
			DecayAmplitude:       patch.Envelope.DecayAmplitude,
		}
		keyInstrument := midi.NewGenericInstrument(bank.Name, keySources, patch.SourceBaseKey, envelope)
		instrument.AddRange(midi.InstrumentRange{Instrument: keyInstrument, StartKey: patch.StartKey, EndKey: patch.EndKey})
	}
	return instrument, nil
}
