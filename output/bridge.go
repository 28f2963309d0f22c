// Package output bridges a graph.Source to the system audio device,
// matching the locking discipline of the original engine: the device
// callback locks out concurrent graph mutation for the duration of
// each buffer fill, and at most one Bridge may own the device at a
// time process-wide.
package output

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/programmerjake/midi-synth/channelmix"
	"github.com/programmerjake/midi-synth/graph"
)

// ErrDeviceBusy is returned by Open when another Bridge in this
// process already owns the audio device.
var ErrDeviceBusy = errors.New("output: device already in use")

// deviceInUse enforces the single-owner invariant process-wide.
var deviceInUse atomic.Bool

// Bridge owns the system audio device and streams a graph.Source to
// it, downmixing from the engine's internal NOut channels to the
// channel count passed to Open. frame and mixBuf are scratch
// buffers sized once at construction so Stream never allocates on its
// per-sample hot path.
type Bridge struct {
	mu         sync.Mutex
	source     graph.Source
	sampleRate beep.SampleRate
	channels   int
	logger     *log.Logger

	frame  [graph.NOut]float32
	mixBuf []float32
}

// Open claims the process-wide audio device and binds source as the
// signal to stream. bufferDuration controls the speaker's internal
// buffer size, matching gopxl/beep's speaker.Init contract.
func Open(source graph.Source, sampleRate int, channels int, bufferDuration time.Duration, logger *log.Logger) (*Bridge, error) {
	if deviceInUse.Swap(true) {
		return nil, ErrDeviceBusy
	}
	if logger == nil {
		logger = log.Default()
	}
	if channels <= 0 {
		channels = graph.NOut
	}
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(bufferDuration)); err != nil {
		deviceInUse.Store(false)
		return nil, err
	}
	b := &Bridge{
		source:     source,
		sampleRate: rate,
		channels:   channels,
		logger:     logger,
		mixBuf:     make([]float32, channels),
	}
	logger.Info("audio device opened", "sampleRate", sampleRate, "channels", channels)
	return b, nil
}

// Lock blocks graph playback so the caller can mutate the bound
// source's topology (e.g. a MidiChannel's note-on/note-off) without
// racing the device callback.
func (b *Bridge) Lock() { b.mu.Lock() }

// Unlock releases a lock taken with Lock.
func (b *Bridge) Unlock() { b.mu.Unlock() }

// TryLock attempts to take the lock without blocking.
func (b *Bridge) TryLock() bool { return b.mu.TryLock() }

// Play starts streaming the bound source to the speaker.
func (b *Bridge) Play() {
	speaker.Play(b)
}

// Close stops playback, closes the speaker backend and then releases
// the process-wide device claim.
func (b *Bridge) Close() {
	speaker.Clear()
	speaker.Close()
	deviceInUse.Store(false)
	b.logger.Info("audio device closed")
}

// Stream implements beep.Streamer, advancing the bound source one
// sample per frame and downmixing its NOut channels to the channel
// count passed to Open via channelmix, then handing the first two of
// those channels (or the single channel on both sides) to the stereo
// pair beep's speaker backend requires.
func (b *Bridge) Stream(samples [][2]float64) (n int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sampleDuration := 1.0 / float64(b.sampleRate)
	for i := range samples {
		for ch := 0; ch < graph.NOut; ch++ {
			b.frame[ch] = b.source.CurrentSample(ch)
		}
		b.source.AdvanceTime(sampleDuration)
		channelmix.MixChannelsInto(b.mixBuf, b.frame[:])
		samples[i][0] = float64(b.mixBuf[0])
		if len(b.mixBuf) > 1 {
			samples[i][1] = float64(b.mixBuf[1])
		} else {
			samples[i][1] = samples[i][0]
		}
	}
	return len(samples), true
}

// Err implements beep.Streamer. The bridge never produces a terminal
// streaming error of its own; device-level failures surface through
// the speaker backend's own error channel.
func (b *Bridge) Err() error { return nil }
