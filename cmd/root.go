// Package cmd provides the command-line interface of rxdma.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rxdma",
	Short: "rxdma simulates a receive DMA capture device and its driver.",
	Long: `rxdma simulates a receive DMA capture device cycle by cycle. ` +
		`Frames from the ingress ports land in host buffers described by ` +
		`a descriptor ring, and a polled or interrupt driven driver ` +
		`delivers them to pcap files and recordings.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
