package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/secretpiano/audio"
	"github.com/jsphweid/secretpiano/midi"
	"github.com/jsphweid/secretpiano/session"
	"github.com/jsphweid/secretpiano/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan dir [max]",
	Short: "Finds MIDI files that play the melody",
	Long:  `Replays every MIDI file under dir through a fresh piano and reports the ones that play the melody`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 2 {
			arg, err := strconv.Atoi(args[1])
			cobra.CheckErr(err)
			maxNum = arg
		}
		cobra.CheckErr(scan(os.Stdout, args[0], maxNum))
	},
}

type scanResult struct {
	path    string
	notes   int
	matches int
}

func scan(w io.Writer, dir string, maxNum int) error {
	paths, err := util.GatherAllMidiPaths(dir, maxNum)
	if err != nil {
		return err
	}

	var found []scanResult
	for i, path := range paths {
		logger.Debug("scanning", "file", path, "n", i+1, "of", len(paths))
		res, err := replay(path)
		if err != nil {
			logger.Warn("skipping file", "file", path, "err", err)
			continue
		}
		if res.matches > 0 {
			found = append(found, res)
		}
	}

	for _, res := range found {
		fmt.Fprintf(w, "%v: melody played %v (%v notes)\n", res.path, pluralTimes(int64(res.matches)), humanize.Comma(int64(res.notes)))
	}
	fmt.Fprintf(w, "%v of %v files play the melody\n", len(found), len(paths))
	return nil
}

// replay feeds every note of the file to a silent session.
func replay(path string) (scanResult, error) {
	res := scanResult{path: path}
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return res, err
	}

	sess := session.New(session.Config{
		Player: audio.Nop{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer sess.Close()

	for _, n := range midi.ReadNotes(s) {
		res.notes++
		if sess.TriggerNote(context.Background(), n).Matched {
			res.matches++
		}
	}
	return res, nil
}
