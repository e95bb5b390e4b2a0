package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/secretpiano/constants"
	"github.com/jsphweid/secretpiano/event"
	"github.com/jsphweid/secretpiano/presenter"
	"github.com/jsphweid/secretpiano/session"
	"github.com/jsphweid/secretpiano/util"
	"github.com/spf13/cobra"
)

const volumeStep = 0.1

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Plays from the terminal",
	Long: `Plays from the terminal. Every character read from stdin is a key press.
'!' shows or hides key labels, '+' and '-' change the volume. Ctrl-D quits.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(play(cmd.Context(), os.Stdin, os.Stdout))
	},
}

func play(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	newPlayer, release := playerFactory()
	defer release()

	s := session.New(session.Config{
		Bindings: loadBindings(),
		Player:   newPlayer(),
		Logger:   logger,
	})
	defer s.Close()

	if err := s.EnsureReady(ctx); err != nil {
		logger.Warn("audio not ready, playing silently", "err", err)
	}

	var notes, matches int64
	s.Subscribe(presenter.NewTerminal(out).Handle)
	s.Subscribe(func(sig event.Signal) {
		switch sig.Kind() {
		case event.KindHighlight:
			notes++
		case event.KindSuccess:
			matches++
		}
	})

	fmt.Fprintf(out, "keys: %v\n", s.Bindings().Inputs())
	volume := constants.DefaultVolume
	reader := bufio.NewReader(in)
	for {
		r, _, err := reader.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch r {
		case '\n', '\r', ' ':
		case '!':
			s.ToggleVisibility()
		case '+', '-':
			if r == '+' {
				volume = util.Clamp(volume+volumeStep, 0, 1)
			} else {
				volume = util.Clamp(volume-volumeStep, 0, 1)
			}
			// snap to zero so repeated steps reach real silence
			if volume < volumeStep/2 {
				volume = 0
			}
			if _, err := s.SetVolume(volume); err != nil {
				return err
			}
		default:
			s.Trigger(ctx, string(r))
		}
	}

	elapsed := durafmt.Parse(time.Since(s.Started).Round(time.Second)).LimitFirstN(2)
	fmt.Fprintf(out, "played %v notes in %v, found the melody %v\n",
		humanize.Comma(notes), elapsed, pluralTimes(matches))
	return nil
}

func pluralTimes(n int64) string {
	if n == 1 {
		return "once"
	}
	return humanize.Comma(n) + " times"
}
