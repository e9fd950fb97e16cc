package commands

import (
	"github.com/spf13/cobra"
)

// area groups the resource kinds under their appliance area, mirroring the
// tmsh path (`ltm profile http`, `net vlan`, ...).
// area 按设备区域组织资源 kind，对应 tmsh 路径。
type area struct {
	use   string
	short string
	kinds map[string]string // subcommand -> kind
}

var areas = []area{
	{
		use:   "profile",
		short: "Manage LTM profiles",
		// Short: 管理 LTM profile
		kinds: map[string]string{
			"http": "ltm/profile-http",
			"tcp":  "ltm/profile-tcp",
			"udp":  "ltm/profile-udp",
		},
	},
	{
		use:   "net",
		short: "Manage network objects (vlan, tunnel, ike-peer)",
		// Short: 管理网络对象（vlan、tunnel、ike-peer）
		kinds: map[string]string{
			"vlan":     "net/vlan",
			"tunnel":   "net/tunnel",
			"ike-peer": "net/ike-peer",
		},
	},
	{
		use:   "security",
		short: "Manage firewall policy rules",
		// Short: 管理防火墙策略规则
		kinds: map[string]string{
			"firewall-rule": "security/firewall-rule",
		},
	},
	{
		use:   "gtm",
		short: "Manage GTM wide IPs",
		// Short: 管理 GTM wide IP
		kinds: map[string]string{
			"wideip": "gtm/wideip",
		},
	},
}

func init() {
	for _, a := range areas {
		areaCmd := &cobra.Command{Use: a.use, Short: a.short}
		for sub, kind := range a.kinds {
			areaCmd.AddCommand(newResourceCmd(sub, kind))
		}
		RootCmd.AddCommand(areaCmd)
	}
}

// newResourceCmd builds the set/delete pair for one resource kind.
// newResourceCmd 为单个资源 kind 构建 set/delete 命令对。
func newResourceCmd(use, kind string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: "Manage " + kind + " resources",
	}

	var setParams []string
	setCmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or update a " + kind + " resource",
		// Short: 创建或更新资源
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := parseParams(setParams)
			if err != nil {
				return err
			}
			input["name"] = args[0]
			input["state"] = "present"
			return runKind(cmd, kind, input)
		},
	}
	setCmd.Flags().StringArrayVarP(&setParams, "param", "p", nil,
		"Resource parameter as key=value (repeatable)")

	var delParams []string
	delCmd := &cobra.Command{
		Use:     "del <name>",
		Aliases: []string{"delete"},
		Short:   "Delete a " + kind + " resource",
		// Short: 删除资源
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := parseParams(delParams)
			if err != nil {
				return err
			}
			input["name"] = args[0]
			input["state"] = "absent"
			return runKind(cmd, kind, input)
		},
	}
	delCmd.Flags().StringArrayVarP(&delParams, "param", "p", nil,
		"Resource parameter as key=value (repeatable)")

	cmd.AddCommand(setCmd, delCmd)
	return cmd
}
