// Package commands builds the f5ctl command tree.
// Package commands 构建 f5ctl 命令树。
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gundalow-collections/f5networks/internal/config"
	"github.com/gundalow-collections/f5networks/internal/utils/logger"
)

var (
	cfgPath   string
	checkMode bool

	// cfg is the configuration loaded by the root PersistentPreRun.
	// cfg 是根命令 PersistentPreRun 加载的配置。
	cfg = config.Defaults()
)

var RootCmd = &cobra.Command{
	Use:   "f5ctl",
	Short: "Declarative configuration for BIG-IP appliances",
	// Short: BIG-IP 设备的声明式配置
	Long: `f5ctl reconciles desired state against a BIG-IP appliance over its
REST management API: it fetches the current object, computes a
field-by-field difference and issues only the calls needed to converge.
f5ctl 通过 REST 管理 API 将期望状态与 BIG-IP 设备调谐：获取当前对象，
逐字段计算差异，只发出收敛所需的调用。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path := cfgPath
		if path == "" {
			path = config.DefaultConfigPath
		}

		// A missing config file is fine for commands that take their
		// provider from the environment.
		// 配置文件缺失没有关系，部分命令从环境变量取 provider。
		cfg = config.LoadOrDefaults(path)
		logger.Init(cfg.Logging)

		ctx := logger.WithContext(cmd.Context(), logger.Get(nil))
		cmd.SetContext(ctx)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		fmt.Sprintf("Path to configuration file (default: %s)", config.DefaultConfigPath))
	RootCmd.PersistentFlags().BoolVar(&checkMode, "check", false,
		"Report would-be changes without writing to the device")
}
