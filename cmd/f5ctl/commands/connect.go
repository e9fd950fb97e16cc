package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gundalow-collections/f5networks/internal/connect"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Verify connectivity with the configured transport",
	// Short: 用配置的传输方式验证连通性
	Long: `Connect negotiates the configured transport and reports which one
came up. For the cli transport the SSH shell is opened and the prompt
driven back to a known state first.
connect 协商配置的传输方式并报告结果。对 cli 传输会先打开 SSH shell
并把提示符驱动回已知状态。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := connect.Negotiate(cmd.Context(), provider())
		if err != nil {
			return err
		}
		defer t.Close()

		if rest, ok := t.(*connect.RestTransport); ok {
			if err := rest.Client.Login(cmd.Context()); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "connected via %s transport\n", t.Kind())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(connectCmd)
}
