package graph

// NOut is the engine's internal output channel count (Left, Right).
const NOut = 2

// Frame is one sample per output channel at one instant in time.
type Frame [NOut]float32

// AudioData is an immutable decoded PCM buffer with an optional loop
// point. It is produced by an external decoder (see instrumentdir) and
// never mutated once published into the graph.
type AudioData struct {
	Frames             []Frame
	SampleRate         float64
	LoopStart          int
	Looped             bool
	LoopDecayAmplitude float32
}

// NewAudioData validates and constructs an AudioData. LoopDecayAmplitude
// must be in (0, 1]; LoopStart must be a valid frame index when Looped.
func NewAudioData(frames []Frame, sampleRate float64, looped bool, loopStart int, loopDecayAmplitude float32) *AudioData {
	if looped && (loopStart < 0 || loopStart >= len(frames)) {
		panic("graph: invalid loop start")
	}
	if loopDecayAmplitude <= 0 || loopDecayAmplitude > 1 {
		panic("graph: loop decay amplitude must be in (0, 1]")
	}
	return &AudioData{
		Frames:             frames,
		SampleRate:         sampleRate,
		LoopStart:          loopStart,
		Looped:             looped,
		LoopDecayAmplitude: loopDecayAmplitude,
	}
}
