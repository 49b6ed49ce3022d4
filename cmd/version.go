package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of osgate",
		Long:  `All software has versions. This is osgate's.`,
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is set in main via SetVersion; the version
			// template in root.go handles --version, this command mirrors it.
			fmt.Printf("osgate version %s\n", rootCmd.Version)
		},
	}
}
