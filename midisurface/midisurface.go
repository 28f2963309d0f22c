// Package midisurface drives a midi.Channel set from a hardware or
// virtual MIDI input port, translating MIDI 1.0 channel-voice messages
// into the corresponding midi.Channel calls.
package midisurface

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	synthmidi "github.com/programmerjake/midi-synth/midi"
)

// ChannelSet resolves a MIDI channel number (0-15) to the synth
// midi.Channel it should drive.
type ChannelSet interface {
	Channel(midiChannel uint8) *synthmidi.Channel
}

// Surface owns an open MIDI input port and forwards its messages to a
// ChannelSet for as long as it is listening. Every dispatched message
// takes locker (typically the output.Bridge streaming the channel
// set) for the duration of the call, since the driver's listen
// goroutine otherwise races the audio callback's own traversal of the
// same channels' voice lists.
type Surface struct {
	in       drivers.In
	channels ChannelSet
	locker   sync.Locker
	logger   *log.Logger
	stop     func()
}

// Open finds an input port by (possibly partial) name and begins
// listening, dispatching channel-voice messages to channels under
// locker.
func Open(portName string, channels ChannelSet, locker sync.Locker, logger *log.Logger) (*Surface, error) {
	if logger == nil {
		logger = log.Default()
	}
	in, err := midi.FindInPort(portName)
	if err != nil {
		return nil, fmt.Errorf("midisurface: find input port %q: %w", portName, err)
	}
	s := &Surface{in: in, channels: channels, locker: locker, logger: logger}
	stop, err := midi.ListenTo(in, s.handle, drivers.ListenConfig{})
	if err != nil {
		return nil, fmt.Errorf("midisurface: listen on %q: %w", portName, err)
	}
	s.stop = stop
	logger.Info("midi surface listening", "port", portName)
	return s, nil
}

// Close stops listening and releases the input port.
func (s *Surface) Close() {
	if s.stop != nil {
		s.stop()
	}
}

func (s *Surface) handle(msg midi.Message, timestampms int32) {
	var channelNum, key, velocity, controller, value uint8
	var pitchBendAbsolute uint16
	var pitchBendRelative int16

	s.locker.Lock()
	defer s.locker.Unlock()

	switch {
	case msg.GetNoteOn(&channelNum, &key, &velocity):
		ch := s.channels.Channel(channelNum)
		if ch == nil {
			return
		}
		ch.NoteOn(int(key), int(velocity))
	case msg.GetNoteOff(&channelNum, &key, &velocity):
		ch := s.channels.Channel(channelNum)
		if ch == nil {
			return
		}
		ch.NoteOff(int(key), int(velocity))
	case msg.GetPolyAfterTouch(&channelNum, &key, &velocity):
		ch := s.channels.Channel(channelNum)
		if ch == nil {
			return
		}
		ch.Aftertouch(int(key), int(velocity))
	case msg.GetAfterTouch(&channelNum, &velocity):
		ch := s.channels.Channel(channelNum)
		if ch == nil {
			return
		}
		ch.AftertouchAll(int(velocity))
	case msg.GetControlChange(&channelNum, &controller, &value):
		const volumeController = 7
		if controller != volumeController {
			return
		}
		ch := s.channels.Channel(channelNum)
		if ch == nil {
			return
		}
		ch.SetVolume(float64(value) / synthmidi.MaxVelocity)
	case msg.GetPitchBend(&channelNum, &pitchBendRelative, &pitchBendAbsolute):
		ch := s.channels.Channel(channelNum)
		if ch == nil {
			return
		}
		const pitchBendRangeSemitones = 2
		const pitchBendCenter = 8192
		ch.PitchBend(float64(pitchBendRelative) / pitchBendCenter * pitchBendRangeSemitones)
	default:
		s.logger.Debug("midi surface ignored message", "message", msg)
	}
}
