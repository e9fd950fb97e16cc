package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gundalow-collections/f5networks/internal/modules"
	"github.com/gundalow-collections/f5networks/internal/utils/logger"
)

var applyFile string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a desired-state file to the device",
	// Short: 将期望状态文件应用到设备
	Long: `Apply reads a multi-document YAML file of {kind, state, params}
records and reconciles each one in order. With --check, changes are
reported but not written.
apply 读取 {kind, state, params} 记录的多文档 YAML 文件并按序调谐每条
记录。带 --check 时只报告变更，不写入。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.Get(ctx)

		docs, err := modules.LoadDocuments(applyFile)
		if err != nil {
			return err
		}
		c, err := deviceClient(ctx)
		if err != nil {
			return err
		}

		aw := auditWriter()
		changed := 0
		for _, doc := range docs {
			result, err := modules.RunDocument(ctx, c, doc, checkMode)
			if err != nil {
				return fmt.Errorf("kind %s: %w", doc.Kind, err)
			}
			name, _ := doc.Params["name"].(string)
			if name == "" {
				name, _ = doc.Params["key"].(string)
			}
			if err := aw.Log(doc.Kind, name, doc.State, checkMode, result); err != nil {
				log.Warnf("audit log: %v", err)
			}
			if result.Changed {
				changed++
			}
			printResult(cmd, doc.Kind, name, result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d resources, %d changed\n", len(docs), changed)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Desired-state YAML file")
	_ = applyCmd.MarkFlagRequired("file")
	RootCmd.AddCommand(applyCmd)
}
