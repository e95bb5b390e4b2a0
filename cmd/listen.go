package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/secretpiano/midi"
	"github.com/jsphweid/secretpiano/model"
	"github.com/jsphweid/secretpiano/presenter"
	"github.com/jsphweid/secretpiano/session"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var midiInPort string

func init() {
	listenCmd.Flags().StringVar(&midiInPort, "in", "", "MIDI input whose name starts with this (first input when empty)")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Plays from a MIDI controller",
	Long:  `Plays from a MIDI controller. Every note pressed on the controller counts towards the melody.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(listen())
	},
}

func listen() error {
	drv, err := rtmididrv.New()
	if err != nil {
		return err
	}
	defer drv.Close()

	newPlayer, release := playerFactory()
	defer release()

	s := session.New(session.Config{
		Bindings: loadBindings(),
		Player:   newPlayer(),
		Logger:   logger,
	})
	defer s.Close()
	s.Subscribe(presenter.NewTerminal(os.Stdout).Handle)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ins, err := drv.Ins()
	if err != nil {
		return err
	}
	stopListening, err := midi.Listen(ins, midiInPort, logger, func(n model.Note) {
		s.TriggerNote(ctx, n)
	})
	if err != nil {
		return err
	}
	defer stopListening()

	<-ctx.Done()
	return nil
}
