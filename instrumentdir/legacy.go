// Package instrumentdir loads midi.Instrument definitions from an
// on-disk directory: either the legacy line-oriented keys.txt format
// (kept for compatibility with existing patch directories) or a
// structured YAML patch bank.
//
// The legacy format has no error recovery by design — a malformed
// keys.txt is a packaging bug, not a runtime condition to degrade
// gracefully from, so every parse failure is fatal to loading that
// directory.
package instrumentdir

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/programmerjake/midi-synth/graph"
	"github.com/programmerjake/midi-synth/midi"
)

// lineReader wraps bufio.Scanner with '#'-prefixed comment skipping,
// matching the legacy directory format's skipComments helper.
// pushback/havePushback let skipComments hand the first non-comment
// line to the next Line() call without losing it.
type lineReader struct {
	scanner      *bufio.Scanner
	path         string
	pushback     string
	havePushback bool
}

func newLineReader(path string) (*lineReader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("instrumentdir: can't open file: %s", path)
	}
	return &lineReader{scanner: bufio.NewScanner(f), path: path}, f.Close, nil
}

func (r *lineReader) skipComments() {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !strings.HasPrefix(line, "#") {
			r.pushback = line
			r.havePushback = true
			return
		}
	}
}

func (r *lineReader) Line() (string, bool) {
	if r.havePushback {
		r.havePushback = false
		return r.pushback, true
	}
	if !r.scanner.Scan() {
		return "", false
	}
	return r.scanner.Text(), true
}

// LoadLegacyDirectory loads a keys.txt-based instrument directory from
// path, matching the on-disk grammar documented in the directory's own
// keys.txt header comment: a first line naming the instrument,
// followed by one sub-key-file name per line. Each sub-key file starts
// with a '#'-commentable line naming fifteen whitespace-separated
// properties, followed by any number of (audio file name, per-channel
// amplitude line) pairs terminated by a blank line or EOF.
func LoadLegacyDirectory(path string) (midi.Instrument, error) {
	if path == "" {
		path = "."
	}
	path = strings.TrimSuffix(path, "/")

	keysPath := filepath.Join(path, "keys.txt")
	keys, closeKeys, err := newLineReader(keysPath)
	if err != nil {
		return nil, err
	}
	defer closeKeys()
	keys.skipComments()

	name, ok := keys.Line()
	if !ok {
		return nil, fmt.Errorf("instrumentdir: invalid format: %s", keysPath)
	}

	instrument := midi.NewSelectInstrument(name)
	for {
		keyFileName, ok := keys.Line()
		if !ok {
			break
		}
		if keyFileName == "" {
			continue
		}
		keyRange, err := loadLegacyKeyFile(path, keyFileName, name)
		if err != nil {
			return nil, err
		}
		instrument.AddRange(keyRange)
	}
	return instrument, nil
}

func loadLegacyKeyFile(dir, keyFileName, instrumentName string) (midi.InstrumentRange, error) {
	keyPath := filepath.Join(dir, keyFileName)
	key, closeKey, err := newLineReader(keyPath)
	if err != nil {
		return midi.InstrumentRange{}, err
	}
	defer closeKey()
	key.skipComments()

	propsLine, ok := key.Line()
	if !ok {
		return midi.InstrumentRange{}, fmt.Errorf("instrumentdir: invalid format: %s", keyPath)
	}
	props, err := parseKeyProperties(propsLine)
	if err != nil {
		return midi.InstrumentRange{}, fmt.Errorf("instrumentdir: invalid format: %s: %w", keyPath, err)
	}

	keySources := graph.NewMix()
	for {
		audioFileName, ok := key.Line()
		if !ok || audioFileName == "" {
			break
		}
		audioFilePath := filepath.Join(dir, audioFileName)
		audioData, err := DecodeWAV(audioFilePath)
		if err != nil {
			return midi.InstrumentRange{}, fmt.Errorf("instrumentdir: can't open file: %s", audioFilePath)
		}
		if props.loopEnd > 0 {
			audioData = ApplyLoop(audioData, props.loopStart, props.loopEnd, float32(props.loopDecayAmplitude))
		}

		ampLine, ok := key.Line()
		if !ok {
			return midi.InstrumentRange{}, fmt.Errorf("instrumentdir: can't open file: %s", audioFilePath)
		}
		var channelAmplitudes [graph.NOut]float32
		fields := strings.Fields(ampLine)
		for i := 0; i < graph.NOut && i < len(fields); i++ {
			v, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				return midi.InstrumentRange{}, fmt.Errorf("instrumentdir: can't open file: %s", audioFilePath)
			}
			channelAmplitudes[i] = float32(v)
		}

		sampled := graph.NewSampled(audioData)
		keySources.Insert(graph.NewPan(sampled, channelAmplitudes), 1.0)
	}

	attackSpeed := props.attackSpeed
	if attackSpeed < 0 {
		attackSpeed = midi.InstantaneousAttack
	}
	envelope := midi.EnvelopeParams{
		AttackSpeed:          attackSpeed,
		DecaySpeed:           props.decaySpeed,
		SustainSpeed:         props.sustainSpeed,
		ReleaseSpeed:         props.releaseSpeed,
		ReleaseSpeedVariance: props.releaseSpeedVariance,
		SlideSpeed:           props.slideSpeed,
		AftertouchSpeed:      props.aftertouchSpeed,
		AttackAmplitude:      float32(props.attackAmplitude),
		DecayAmplitude:       float32(props.decayAmplitude),
	}
	keyInstrument := midi.NewGenericInstrument(instrumentName, keySources, props.sourceBaseKey, envelope)
	return midi.InstrumentRange{Instrument: keyInstrument, StartKey: props.startKey, EndKey: props.endKey}, nil
}

type keyProperties struct {
	sourceBaseKey                                                            float64
	attackSpeed, decaySpeed, sustainSpeed, releaseSpeed, releaseSpeedVariance float64
	slideSpeed, aftertouchSpeed                                              float64
	attackAmplitude, decayAmplitude                                          float64
	loopStart, loopEnd                                                       int
	loopDecayAmplitude                                                       float64
	startKey, endKey                                                         int
}

// parseKeyProperties reads the fifteen whitespace-separated fields of a
// sub-key file's property line, in the fixed order: sourceBaseKey,
// attackSpeed, decaySpeed, sustainSpeed, releaseSpeed,
// releaseSpeedVariance, slideSpeed, aftertouchSpeed, attackAmplitude,
// decayAmplitude, loopStart, loopEnd, loopDecayAmplitude, startKey, endKey.
func parseKeyProperties(line string) (keyProperties, error) {
	fields := strings.Fields(line)
	const want = 15
	if len(fields) != want {
		return keyProperties{}, fmt.Errorf("expected %d fields, got %d", want, len(fields))
	}
	floats := make([]float64, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return keyProperties{}, fmt.Errorf("field %d: %w", i, err)
		}
		floats[i] = v
	}
	return keyProperties{
		sourceBaseKey:        floats[0],
		attackSpeed:          floats[1],
		decaySpeed:           floats[2],
		sustainSpeed:         floats[3],
		releaseSpeed:         floats[4],
		releaseSpeedVariance: floats[5],
		slideSpeed:           floats[6],
		aftertouchSpeed:      floats[7],
		attackAmplitude:      floats[8],
		decayAmplitude:       floats[9],
		loopStart:            int(floats[10]),
		loopEnd:              int(floats[11]),
		loopDecayAmplitude:   floats[12],
		startKey:             int(floats[13]),
		endKey:               int(floats[14]),
	}, nil
}
