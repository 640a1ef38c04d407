package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the optiondesk CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("optiondesk version %s\n", version)
		fmt.Println("A binary-options trading desk simulator")
		fmt.Println("https://github.com/rustyeddy/optiondesk")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
