package cmd

import (
	"fmt"

	"github.com/jsphweid/secretpiano/midi"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Lists MIDI ports",
	Long:  `Lists MIDI ports usable with listen --in and --midi-out`,
	Run: func(cmd *cobra.Command, args []string) {
		drv, err := rtmididrv.New()
		cobra.CheckErr(err)
		defer drv.Close()

		ins, err := drv.Ins()
		cobra.CheckErr(err)
		outs, err := drv.Outs()
		cobra.CheckErr(err)

		inNames, outNames := midi.PortNames(ins, outs)
		fmt.Println("inputs:")
		for _, name := range inNames {
			fmt.Printf("  %v\n", name)
		}
		fmt.Println("outputs:")
		for _, name := range outNames {
			fmt.Printf("  %v\n", name)
		}
	},
}
