package instrumentdir

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"github.com/programmerjake/midi-synth/graph"
)

// SampleDecoder turns an on-disk audio file into a graph.AudioData,
// standing in for the Ogg/Vorbis ingress path this module replaces
// with WAV. A decoder always returns an unlooped buffer at unity
// amplitude; ApplyLoop layers looping on afterward.
type SampleDecoder interface {
	Decode(path string) (*graph.AudioData, error)
}

// WAVDecoder implements SampleDecoder against PCM WAV files.
type WAVDecoder struct{}

// Decode implements SampleDecoder.
func (WAVDecoder) Decode(path string) (*graph.AudioData, error) {
	return DecodeWAV(path)
}

// DecodeWAV reads a PCM WAV file into a graph.AudioData at unity loop
// decay and no loop point. Callers that need looping call
// ApplyLoop afterward.
func DecodeWAV(path string) (*graph.AudioData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instrumentdir: open %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("instrumentdir: %s is not a valid WAV file", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("instrumentdir: decode %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("instrumentdir: %s has no channels", path)
	}
	frameCount := len(buf.Data) / channels
	frames := make([]graph.Frame, frameCount)
	maxVal := float32(int(1) << uint(buf.SourceBitDepth-1))
	for i := 0; i < frameCount; i++ {
		var fr graph.Frame
		for ch := 0; ch < graph.NOut; ch++ {
			src := ch
			if src >= channels {
				src = channels - 1
			}
			fr[ch] = float32(buf.Data[i*channels+src]) / maxVal
		}
		frames[i] = fr
	}

	return graph.NewAudioData(frames, float64(buf.Format.SampleRate), false, 0, 1), nil
}

// ApplyLoop truncates data's frame buffer to loopEnd frames (if
// loopEnd > 0) and marks it as looping back to loopStart with the
// given per-wraparound amplitude decay.
func ApplyLoop(data *graph.AudioData, loopStart, loopEnd int, loopDecayAmplitude float32) *graph.AudioData {
	frames := data.Frames
	if loopEnd > 0 && loopEnd < len(frames) {
		frames = frames[:loopEnd]
	}
	return graph.NewAudioData(frames, data.SampleRate, true, loopStart, loopDecayAmplitude)
}
