package commands

import (
	"github.com/spf13/cobra"
)

var sysCmd = &cobra.Command{
	Use:   "sys",
	Short: "Manage system settings",
	// Short: 管理系统设置
}

var sysDbSetCmd = &cobra.Command{
	Use:   "db-set <key> <value>",
	Short: "Set a system database variable",
	// Short: 设置系统数据库变量
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKind(cmd, "sys/db", map[string]interface{}{
			"key":   args[0],
			"value": args[1],
			"state": "present",
		})
	},
}

var sysDbResetCmd = &cobra.Command{
	Use:   "db-reset <key>",
	Short: "Reset a system database variable to its default value",
	// Short: 将系统数据库变量重置为默认值
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKind(cmd, "sys/db", map[string]interface{}{
			"key":   args[0],
			"state": "reset",
		})
	},
}

func init() {
	sysCmd.AddCommand(sysDbSetCmd, sysDbResetCmd)
	RootCmd.AddCommand(sysCmd)
}
