// Command synthctl loads an instrument directory and plays it through
// the system audio device, optionally driven by a hardware MIDI
// controller or OSC messages.
package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/programmerjake/midi-synth/config"
	"github.com/programmerjake/midi-synth/graph"
	"github.com/programmerjake/midi-synth/instrumentdir"
	"github.com/programmerjake/midi-synth/midi"
	"github.com/programmerjake/midi-synth/midisurface"
	"github.com/programmerjake/midi-synth/oscsurface"
	"github.com/programmerjake/midi-synth/output"
)

// channelBank is the running engine's ChannelSet: sixteen MIDI
// channels, every one driven by the same loaded instrument unless
// reassigned at runtime.
type channelBank struct {
	channels [16]*midi.Channel
}

func newChannelBank(instrument midi.Instrument) *channelBank {
	b := &channelBank{}
	for i := range b.channels {
		b.channels[i] = midi.NewChannel(instrument)
	}
	return b
}

func (b *channelBank) Channel(midiChannel uint8) *midi.Channel {
	if int(midiChannel) >= len(b.channels) {
		return nil
	}
	return b.channels[midiChannel]
}

func (b *channelBank) mix() *mixedBank {
	return &mixedBank{bank: b}
}

// mixedBank sums all sixteen channels into a single graph.Source for
// the output bridge.
type mixedBank struct {
	bank *channelBank
}

func (m *mixedBank) CurrentSample(channel int) float32 {
	var sum float32
	for _, ch := range m.bank.channels {
		sum += ch.CurrentSample(channel)
	}
	return sum
}

func (m *mixedBank) AdvanceTime(dt float64) {
	for _, ch := range m.bank.channels {
		ch.AdvanceTime(dt)
	}
}

func (m *mixedBank) Duplicate() (graph.Source, error) {
	return nil, graph.ErrNotDuplicable
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "synthctl",
		Short: "Run the MIDI synthesizer engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to engine config YAML (defaults built in)")

	root.AddCommand(newServeCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var instrumentPath string
	var legacy bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load an instrument directory and stream it to the audio device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, instrumentPath, legacy)
		},
	}
	cmd.Flags().StringVar(&instrumentPath, "instrument", "", "instrument directory or patch bank YAML to load")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "load --instrument as a legacy keys.txt directory instead of a YAML patch bank")
	cmd.MarkFlagRequired("instrument")
	return cmd
}

func runServe(configPath, instrumentPath string, legacy bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	var instrument midi.Instrument
	if legacy {
		instrument, err = instrumentdir.LoadLegacyDirectory(instrumentPath)
	} else {
		instrument, err = instrumentdir.LoadPatchBankFile(instrumentPath)
	}
	if err != nil {
		return err
	}
	logger.Info("loaded instrument", "name", instrument.Name(), "path", instrumentPath)

	bank := newChannelBank(instrument)

	bridge, err := output.Open(bank.mix(), cfg.SampleRate, cfg.OutputChannels, time.Duration(cfg.BufferMillis)*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer bridge.Close()
	bridge.Play()

	if cfg.MIDI.Enabled {
		surface, err := midisurface.Open(cfg.MIDI.Port, bank, bridge, logger)
		if err != nil {
			logger.Error("midi surface failed to start", "err", err)
		} else {
			defer surface.Close()
		}
	}

	if cfg.OSC.Enabled {
		go func() {
			if err := oscsurface.Listen(cfg.OSC.Addr, bank, bridge, logger); err != nil {
				logger.Error("osc surface stopped", "err", err)
			}
		}()
	}

	logger.Info("synthctl serving, press ctrl-c to stop")
	select {}
}
