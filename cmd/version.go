package cmd

import (
	"github.com/presskeep/presskeep/pkg/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the presskeep CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.GetVersion())
	},
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "10",
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
