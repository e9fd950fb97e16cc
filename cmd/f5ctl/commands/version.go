package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gundalow-collections/f5networks/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	// Short: 显示版本信息
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "f5ctl %s\n", version.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
