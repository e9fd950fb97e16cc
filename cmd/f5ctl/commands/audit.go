package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gundalow-collections/f5networks/internal/audit"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the local change-audit log",
	// Short: 查看本地变更审计日志
}

var auditFollowCmd = &cobra.Command{
	Use:   "follow",
	Short: "Stream audit records as they are written",
	// Short: 实时跟踪审计记录
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Audit.Enabled || cfg.Audit.Path == "" {
			return fmt.Errorf("%w: audit logging is not configured", f5errors.ErrConfigInvalid)
		}

		out := make(chan audit.Record, 64)
		errCh := make(chan error, 1)
		go func() {
			errCh <- audit.Follow(cmd.Context(), cfg.Audit.Path, out)
		}()

		for rec := range out {
			status := "unchanged"
			if rec.Changed {
				status = "changed"
				if rec.Check {
					status = "would change"
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				rec.Time.Format("2006-01-02T15:04:05Z"), rec.Kind, rec.Name, status)
		}
		return <-errCh
	},
}

func init() {
	auditCmd.AddCommand(auditFollowCmd)
	RootCmd.AddCommand(auditCmd)
}
