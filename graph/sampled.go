package graph

import "math"

// Sampled plays back an AudioData buffer with linear interpolation
// between frames. The read cursor is a float64 frame index; non-looped
// playback stops (and reads as silence) once the cursor runs past the
// end of the buffer, while looped playback rewinds to LoopStart and
// decays amplitude by LoopDecayAmplitude on every wraparound, going
// silent permanently once amplitude falls to or below 1e-10.
type Sampled struct {
	data          *AudioData
	currentSample float64
	amplitude     float32
}

// NewSampled starts playback of data from its first frame at unity
// amplitude. data may be nil, in which case the source is silent.
func NewSampled(data *AudioData) *Sampled {
	return &Sampled{data: data, currentSample: 0, amplitude: 1}
}

const loopSilenceFloor = 1e-10

// Finished reports whether non-looped playback has run off the end of
// the buffer; a nil buffer always reports finished. Looped sources are
// never "finished" in this sense; they simply read as silence once
// amplitude has decayed below the silence floor.
func (s *Sampled) Finished() bool {
	if s.data == nil {
		return true
	}
	return !s.data.Looped && s.currentSample >= float64(len(s.data.Frames))
}

func (s *Sampled) AdvanceTime(dt float64) {
	if s.data == nil {
		return
	}
	s.currentSample += dt * s.data.SampleRate
	n := float64(len(s.data.Frames))
	for s.data.Looped && s.currentSample >= n && s.amplitude > loopSilenceFloor {
		s.currentSample = s.currentSample + float64(s.data.LoopStart) - n
		s.amplitude *= s.data.LoopDecayAmplitude
	}
}

// frameAt returns the channel sample at idx, decaying amplitude for each
// loop wraparound idx has passed through, or 0 once amplitude underflows
// the silence floor or idx is out of range for a non-looped buffer.
func (s *Sampled) frameAt(idx int, channel int, amp float32) float32 {
	data := s.data
	n := len(data.Frames)
	if !data.Looped {
		if idx < 0 || idx >= n {
			return 0
		}
		return amp * data.Frames[idx][channel]
	}
	for idx >= n {
		amp *= data.LoopDecayAmplitude
		if amp < loopSilenceFloor {
			return 0
		}
		idx = idx + data.LoopStart - n
	}
	if idx < 0 {
		return 0
	}
	return amp * data.Frames[idx][channel]
}

func (s *Sampled) CurrentSample(channel int) float32 {
	if s.data == nil || s.Finished() || s.amplitude <= loopSilenceFloor {
		return 0
	}
	floorSample := math.Floor(s.currentSample)
	t := float32(s.currentSample - floorSample)
	idx := int(floorSample)
	sample1 := s.frameAt(idx, channel, s.amplitude)
	sample2 := s.frameAt(idx+1, channel, s.amplitude)
	return t*sample1 + (1-t)*sample2
}

func (s *Sampled) Duplicate() (Source, error) {
	return &Sampled{data: s.data, currentSample: s.currentSample, amplitude: s.amplitude}, nil
}

// Amplitude returns the current loop-decay amplitude multiplier.
func (s *Sampled) Amplitude() float32 { return s.amplitude }
