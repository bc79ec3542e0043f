package main

import (
	"fmt"

	"github.com/ponderworks/ponder"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ponder",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ponder version %s\n", ponder.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
