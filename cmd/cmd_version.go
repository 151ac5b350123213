package cmd

import (
	"fmt"

	"github.com/gaze-network/omniverse-transformer/modules/transformer"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show transformer version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), transformer.Version)
		},
	}
}
