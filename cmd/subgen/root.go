package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var serverFlag string

	client := newAPIClient(&serverFlag)

	rootCmd := &cobra.Command{
		Use:           "subgen",
		Short:         "Subgen subtitle generation CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", defaultServer, "Base URL of the subgend API")

	rootCmd.AddCommand(newStatusCommand(client))
	rootCmd.AddCommand(newJobsCommand(client))
	rootCmd.AddCommand(newShowCommand(client))
	rootCmd.AddCommand(newSubmitCommand(client))
	rootCmd.AddCommand(newSubtitlesCommand(client))
	rootCmd.AddCommand(newDownloadCommand(client))
	rootCmd.AddCommand(newCleanupCommand(client))

	return rootCmd
}
