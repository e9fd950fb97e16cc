package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gundalow-collections/f5networks/internal/audit"
	"github.com/gundalow-collections/f5networks/internal/client"
	"github.com/gundalow-collections/f5networks/internal/config"
	"github.com/gundalow-collections/f5networks/internal/connect"
	"github.com/gundalow-collections/f5networks/internal/modules"
	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// deviceClient negotiates the transport and returns the REST client.
// Reconciliation always runs over the management API.
// deviceClient 协商传输并返回 REST 客户端。调谐总是走管理 API。
func deviceClient(ctx context.Context) (*client.Client, error) {
	t, err := connect.Negotiate(ctx, cfg.Provider)
	if err != nil {
		return nil, err
	}
	rest, ok := t.(*connect.RestTransport)
	if !ok {
		t.Close()
		return nil, fmt.Errorf("%w: resource reconciliation requires the rest transport", f5errors.ErrTransportUnknown)
	}
	return rest.Client, nil
}

// auditWriter returns the configured change-audit sink, or nil.
func auditWriter() *audit.Writer {
	if !cfg.Audit.Enabled || cfg.Audit.Path == "" {
		return nil
	}
	w, err := audit.NewWriter(cfg.Audit.Path)
	if err != nil {
		return nil
	}
	return w
}

// parseParams turns repeated key=value flags into a parameter record.
// Values are parsed as YAML scalars so numbers and booleans keep their type.
// parseParams 将重复的 key=value 标志转换为参数记录。值按 YAML 标量解析，
// 数字和布尔保持类型。
func parseParams(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, raw, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: parameter %q is not key=value", f5errors.ErrInvalidParameter, pair)
		}
		var value interface{}
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		out[key] = value
	}
	return out, nil
}

// runKind dispatches one reconcile run, audits it and prints the outcome.
// runKind 分发一次调谐运行，写入审计并打印结果。
func runKind(cmd *cobra.Command, kind string, input map[string]interface{}) error {
	ctx := cmd.Context()
	c, err := deviceClient(ctx)
	if err != nil {
		return err
	}

	runner, err := modules.Lookup(kind)
	if err != nil {
		return err
	}
	result, err := runner(ctx, c, input, checkMode)
	if err != nil {
		return err
	}

	name, _ := input["name"].(string)
	if name == "" {
		name, _ = input["key"].(string)
	}
	state, _ := input["state"].(string)
	if err := auditWriter().Log(kind, name, state, checkMode, result); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: audit log: %v\n", err)
	}

	printResult(cmd, kind, name, result)
	return nil
}

func printResult(cmd *cobra.Command, kind, name string, result *reconcile.Result) {
	status := "unchanged"
	if result.Changed {
		status = "changed"
		if checkMode {
			status = "would change"
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", kind, name, status)
	if len(result.Changes) > 0 {
		data, err := yaml.Marshal(result.Changes)
		if err == nil {
			fmt.Fprint(cmd.OutOrStdout(), indent(string(data), "  "))
		}
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}

// provider exposes the loaded provider config to subcommands that bypass
// the reconcile path.
func provider() config.ProviderConfig {
	return cfg.Provider
}
