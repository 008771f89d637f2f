package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/infrasim"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of infrasim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "infrasim version %s\n", strings.TrimSpace(infrasim.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
