package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/hako/durafmt"
	"github.com/jsphweid/secretpiano/binding"
	"github.com/jsphweid/secretpiano/constants"
	"github.com/jsphweid/secretpiano/matcher"
	"github.com/jsphweid/secretpiano/note"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Prints the key table",
	Long:  `Prints the key table, the melody length and timings`,
	Run: func(cmd *cobra.Command, args []string) {
		inspect(os.Stdout, loadBindings())
	},
}

func inspect(w io.Writer, table binding.Table) {
	for _, input := range table.Inputs() {
		fmt.Fprintf(w, "key: %v\n", input)
		fmt.Fprintf(w, "note: %v\n", table[input])
	}

	m := matcher.NewSecret()
	playable := 0
	for _, n := range m.Target() {
		if _, ok := table.InputFor(n); ok {
			playable++
		}
	}
	fmt.Fprintf(w, "melody length: %v (%v of %v notes on this key table)\n", m.Len(), playable, m.Len())
	fmt.Fprintf(w, "note duration: %v\n", durafmt.Parse(constants.NoteDuration))
	fmt.Fprintf(w, "highlight: %v\n", durafmt.Parse(constants.PulseDuration))

	if debug {
		fmt.Fprintf(w, "melody: %v\n", note.CreateKey(m.Target()))
	}
}
