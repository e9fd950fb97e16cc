package connect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gundalow-collections/f5networks/internal/config"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// fakeConn simulates a device shell that starts inside nested config contexts.
// fakeConn 模拟一个从嵌套配置上下文启动的设备 shell。
type fakeConn struct {
	prompts []string
	sent    []string
	closed  bool
}

func (f *fakeConn) Send(cmd string) error {
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeConn) ReadPrompt(timeout time.Duration) (string, error) {
	if len(f.prompts) == 0 {
		return "device#", nil
	}
	p := f.prompts[0]
	f.prompts = f.prompts[1:]
	return p, nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

// TestNegotiateRest tests that rest is the default transport
// TestNegotiateRest 测试 rest 是默认传输方式
func TestNegotiateRest(t *testing.T) {
	p := config.ProviderConfig{Server: "192.0.2.1", User: "admin"}

	tr, err := Negotiate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, config.TransportRest, tr.Kind())
	assert.NoError(t, tr.Close())
}

// TestNegotiateUnknown tests rejection of unknown transports
// TestNegotiateUnknown 测试拒绝未知传输方式
func TestNegotiateUnknown(t *testing.T) {
	p := config.ProviderConfig{Server: "192.0.2.1", Transport: "telnet"}

	_, err := Negotiate(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrTransportUnknown)
}

// TestNormalizePrompt tests climbing out of config contexts
// TestNormalizePrompt 测试离开配置上下文
func TestNormalizePrompt(t *testing.T) {
	fc := &fakeConn{prompts: []string{
		"device(config-if)#",
		"device(config)#",
		"device#",
	}}
	s := &ShellSession{conn: fc}

	require.NoError(t, s.NormalizePrompt())
	assert.Equal(t, []string{"exit", "exit"}, fc.sent)
}

// TestNormalizePromptAlreadyClean tests a shell already at the base prompt
// TestNormalizePromptAlreadyClean 测试已处于基础提示符的 shell
func TestNormalizePromptAlreadyClean(t *testing.T) {
	fc := &fakeConn{prompts: []string{"device#"}}
	s := &ShellSession{conn: fc}

	require.NoError(t, s.NormalizePrompt())
	assert.Empty(t, fc.sent)
}

// TestNormalizePromptStuck tests the bound on exit attempts
// TestNormalizePromptStuck 测试 exit 尝试次数的上限
func TestNormalizePromptStuck(t *testing.T) {
	prompts := make([]string, 0, maxConfigExits+1)
	for i := 0; i <= maxConfigExits; i++ {
		prompts = append(prompts, "device(config)#")
	}
	fc := &fakeConn{prompts: prompts}
	s := &ShellSession{conn: fc}

	err := s.NormalizePrompt()
	require.Error(t, err)
	assert.Len(t, fc.sent, maxConfigExits)
}

func TestPromptHelpers(t *testing.T) {
	assert.Equal(t, "device#", lastLine("welcome\r\nmotd line\r\ndevice#"))
	assert.True(t, isPrompt("device#"))
	assert.True(t, isPrompt("device>"))
	assert.False(t, isPrompt("% unknown command"))
}
