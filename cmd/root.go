package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/jsphweid/secretpiano/audio"
	"github.com/jsphweid/secretpiano/binding"
	"github.com/jsphweid/secretpiano/constants"
	"github.com/jsphweid/secretpiano/midi"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var (
	debug        bool
	bindingsPath string
	midiOutPort  string
)

var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "secretpiano",
	Short: "A virtual piano with a hidden melody",
	Long: `A virtual piano. Keys a w s e d f t g y h u j play one octave from C4.
Play the secret melody to get a surprise.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&bindingsPath, "bindings", constants.GetBindingsPath(), "YAML key table (defaults to the built-in octave)")
	rootCmd.PersistentFlags().StringVar(&midiOutPort, "midi-out", constants.GetMidiOutPort(), "play notes on the MIDI output whose name starts with this")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func loadBindings() binding.Table {
	table, err := binding.LoadOrDefault(bindingsPath)
	cobra.CheckErr(err)
	return table
}

// playerFactory returns a constructor for per-session players, silent unless
// a MIDI output was asked for, and a func that releases the MIDI driver.
func playerFactory() (func() audio.Player, func()) {
	if midiOutPort == "" {
		return func() audio.Player { return audio.Nop{} }, func() {}
	}

	drv, err := rtmididrv.New()
	cobra.CheckErr(err)

	newPlayer := func() audio.Player {
		out := midi.NewOut(midi.PortOpener(drv.Outs, midiOutPort), 0)
		return audio.NewDebounced(out, 50*time.Millisecond, func(err error) {
			logger.Warn("could not set midi volume", "err", err)
		})
	}
	return newPlayer, func() { drv.Close() }
}
