package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gundalow-collections/f5networks/internal/agent"
)

var (
	agentFile     string
	agentInterval time.Duration
	agentListen   string
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Watch a desired-state file for drift and export metrics",
	// Short: 监视期望状态文件的漂移并导出指标
	Long: `Agent loops a check-mode replay of the desired-state file against
the device and serves Prometheus gauges (resources total, drifted per
kind, check duration, errors) on /metrics. Nothing is ever written to
the device.
agent 循环以 check 模式将期望状态文件与设备比对，并在 /metrics 上
提供 Prometheus 指标。绝不写入设备。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := deviceClient(cmd.Context())
		if err != nil {
			return err
		}
		a := &agent.Agent{
			Client:     c,
			File:       agentFile,
			Interval:   agentInterval,
			ListenAddr: agentListen,
		}
		return a.Run(cmd.Context())
	},
}

func init() {
	agentCmd.Flags().StringVarP(&agentFile, "file", "f", "", "Desired-state YAML file to watch")
	_ = agentCmd.MarkFlagRequired("file")
	agentCmd.Flags().DurationVar(&agentInterval, "interval", agent.DefaultInterval, "Pause between drift checks")
	agentCmd.Flags().StringVar(&agentListen, "listen", agent.DefaultListenAddr, "Metrics listen address")
	RootCmd.AddCommand(agentCmd)
}
