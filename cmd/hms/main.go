package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configFile string
	dataFile   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:          "hms",
		Short:        "Hospital records console",
		Long:         "Interactive console for patients, doctors, disease references and appointments, kept in a single data file.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), flags, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "Path to a config file (default: ./config.yaml or ./config/config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flags.dataFile, "data", "", "Path to the data file (overrides data_file)")

	rootCmd.AddCommand(statsCmd(flags))
	return rootCmd
}
