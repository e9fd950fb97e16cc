package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	f5client "github.com/gundalow-collections/f5networks/internal/client"
	"github.com/gundalow-collections/f5networks/internal/filter"
	"github.com/gundalow-collections/f5networks/internal/modules"
)

var (
	listFilter string
	listParams []string
)

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List resources of a kind, optionally filtered",
	// Short: 列出某个 kind 的资源，可选过滤
	Long: `List fetches the collection of the given kind and prints each item.
--filter takes an expression evaluated per item, e.g. 'mtu > 1500' or
'name == "internal"'. Kinds addressed below a parent (firewall rules,
typed wide IPs) take the extra parameters via --param.
list 获取给定 kind 的集合并打印每个条目。--filter 接受按条目求值的
表达式。挂在父对象下的 kind（防火墙规则、带类型的 wide IP）通过
--param 传入额外参数。

Known kinds / 已知 kind: ` + fmt.Sprint(modules.Kinds()),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		def, err := modules.Describe(args[0])
		if err != nil {
			return err
		}
		f, err := filter.Compile(listFilter)
		if err != nil {
			return err
		}
		input, err := parseParams(listParams)
		if err != nil {
			return err
		}
		params, err := def.NormalizeModule(input)
		if err != nil {
			return err
		}

		c, err := deviceClient(ctx)
		if err != nil {
			return err
		}
		resp, err := c.Get(ctx, def.CollectionPath(params))
		if err != nil {
			return err
		}
		if err := f5client.CheckError(resp, 400, 403, 404); err != nil {
			return err
		}

		// Filter expressions see the user-facing field names, so items
		// are translated before matching.
		// 过滤表达式看到的是面向用户的字段名，因此先翻译再匹配。
		translated := make([]map[string]interface{}, 0)
		for _, item := range filter.Items(resp.Body) {
			record, err := def.TranslateFromAPI(item)
			if err != nil {
				return err
			}
			translated = append(translated, record.ToMap())
		}
		items, err := f.Apply(translated)
		if err != nil {
			return err
		}
		for _, item := range items {
			data, err := yaml.Marshal(item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "---\n%s", data)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %d items\n", len(items))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Expression evaluated per item")
	listCmd.Flags().StringArrayVarP(&listParams, "param", "p", nil,
		"Collection parameter as key=value (repeatable)")
	RootCmd.AddCommand(listCmd)
}
