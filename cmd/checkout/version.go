package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/checkout"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of checkout",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "checkout version %s\n", strings.TrimSpace(checkout.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
