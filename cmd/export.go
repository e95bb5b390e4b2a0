package cmd

import (
	"os"

	"github.com/jsphweid/secretpiano/matcher"
	"github.com/jsphweid/secretpiano/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Writes the melody as a MIDI file",
	Long:  `Writes the melody as a Standard MIDI File, secret.mid by default`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "secret.mid"
		if len(args) == 1 {
			path = args[0]
		}
		cobra.CheckErr(export(path))
		logger.Info("wrote melody", "path", path)
	},
}

func export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create midi file")
	}
	defer f.Close()
	return midi.WriteMelody(f, "secret melody", matcher.SecretMelody())
}
