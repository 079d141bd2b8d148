package cmd

import (
	"github.com/spf13/cobra"

	"github.com/depscout/depscout/pkg/buildinfo"
)

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("depscout %s\n", buildinfo.BinaryVersion)
		if mod := buildinfo.ModuleVersion(); mod != "" && mod != buildinfo.BinaryVersion {
			cmd.Printf("module %s\n", mod)
		}
	},
}
