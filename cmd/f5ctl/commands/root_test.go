package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand executes a cobra command and returns output.
// executeCommand 执行 cobra 命令并返回输出。
func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandHelp(t *testing.T) {
	// Point the config flag at a missing file so defaults load quietly.
	// 将配置标志指向不存在的文件，默认值静默加载。
	output, err := executeCommand(RootCmd,
		"-c", filepath.Join(t.TempDir(), "missing.yaml"), "--help")
	require.NoError(t, err)
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "f5ctl")
}

func TestCommandTree(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{
		"profile", "net", "security", "gtm", "sys",
		"apply", "list", "agent", "audit", "connect", "init", "version",
	} {
		assert.True(t, names[want], "command %q missing", want)
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(RootCmd, "version",
		"-c", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Contains(t, output, "f5ctl")
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"mtu=9000", "tagged_interfaces=[1.1, 1.2]", "fail_safe=true", "description=edge vlan"})
	require.NoError(t, err)

	assert.Equal(t, 9000, params["mtu"])
	assert.Equal(t, []interface{}{1.1, 1.2}, params["tagged_interfaces"])
	assert.Equal(t, true, params["fail_safe"])
	assert.Equal(t, "edge vlan", params["description"])
}

func TestParseParamsRejectsBarePairs(t *testing.T) {
	_, err := parseParams([]string{"mtu"})
	require.Error(t, err)

	_, err = parseParams([]string{"=9000"})
	require.Error(t, err)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b\n", indent("a\nb\n", "  "))
}
