package cmd

import (
	"github.com/spf13/cobra"
	"shortdrama/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shortdrama",
		Short: "short drama publishing and unlock api",
	}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(migrate(config))
	return rootCmd
}
