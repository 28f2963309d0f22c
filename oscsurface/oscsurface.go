// Package oscsurface drives a midi.Channel set from OSC messages,
// giving software controllers (TouchOSC, a web UI, a sequencer) the
// same note-on/off/volume/pitch-bend surface a hardware MIDI
// controller gets through midisurface.
//
// Address convention: /synth/<channel>/noteon ff, /noteoff ff,
// /volume f, /pitchbend f, /aftertouch f — <channel> is the decimal
// MIDI channel number, arguments are float32 in MIDI-normalized
// ranges (0-127 for keys/velocities, semitones for pitch bend).
package oscsurface

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hypebeast/go-osc/osc"

	synthmidi "github.com/programmerjake/midi-synth/midi"
)

// ChannelSet resolves a MIDI channel number to the synth midi.Channel
// it should drive.
type ChannelSet interface {
	Channel(midiChannel uint8) *synthmidi.Channel
}

// Surface owns an OSC server and forwards its messages to a ChannelSet.
type Surface struct {
	server *osc.Server
	logger *log.Logger
}

// Listen starts an OSC server on addr (host:port) and begins
// dispatching /synth/... messages to channels under locker (typically
// the output.Bridge streaming the channel set), since the OSC
// server's own goroutine otherwise races the audio callback's
// traversal of the same channels' voice lists. It blocks until the
// server stops; callers typically run it in its own goroutine.
func Listen(addr string, channels ChannelSet, locker sync.Locker, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	d := osc.NewStandardDispatcher()
	s := &Surface{logger: logger}

	handlers := map[string]func(channel uint8, args []any){
		"noteon": func(channel uint8, args []any) {
			locker.Lock()
			defer locker.Unlock()
			if ch := channels.Channel(channel); ch != nil && len(args) >= 2 {
				ch.NoteOn(int(toFloat(args[0])), int(toFloat(args[1])))
			}
		},
		"noteoff": func(channel uint8, args []any) {
			locker.Lock()
			defer locker.Unlock()
			if ch := channels.Channel(channel); ch != nil && len(args) >= 1 {
				velocity := synthmidi.DefaultVelocity
				if len(args) >= 2 {
					velocity = int(toFloat(args[1]))
				}
				ch.NoteOff(int(toFloat(args[0])), velocity)
			}
		},
		"volume": func(channel uint8, args []any) {
			locker.Lock()
			defer locker.Unlock()
			if ch := channels.Channel(channel); ch != nil && len(args) >= 1 {
				ch.SetVolume(toFloat(args[0]))
			}
		},
		"pitchbend": func(channel uint8, args []any) {
			locker.Lock()
			defer locker.Unlock()
			if ch := channels.Channel(channel); ch != nil && len(args) >= 1 {
				ch.PitchBend(toFloat(args[0]))
			}
		},
		"aftertouch": func(channel uint8, args []any) {
			locker.Lock()
			defer locker.Unlock()
			if ch := channels.Channel(channel); ch != nil && len(args) >= 1 {
				ch.AftertouchAll(int(toFloat(args[0])))
			}
		},
	}

	for suffix, handler := range handlers {
		suffix, handler := suffix, handler
		pattern := "/synth/*/" + suffix
		d.AddMsgHandler(pattern, func(msg *osc.Message) {
			channel, ok := parseAddress(msg.Address, suffix)
			if !ok {
				return
			}
			handler(channel, msg.Arguments)
		})
	}

	s.server = &osc.Server{Addr: addr, Dispatcher: d}
	logger.Info("osc surface listening", "addr", addr)
	if err := s.server.ListenAndServe(); err != nil {
		return fmt.Errorf("oscsurface: serve %s: %w", addr, err)
	}
	return nil
}

// parseAddress matches "/synth/<channel>/<suffix>" and extracts the
// channel number.
func parseAddress(address, suffix string) (uint8, bool) {
	parts := strings.Split(strings.Trim(address, "/"), "/")
	if len(parts) != 3 || parts[0] != "synth" || parts[2] != suffix {
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 0 || n > 15 {
		return 0, false
	}
	return uint8(n), true
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case int32:
		return float64(x)
	default:
		return 0
	}
}
