// Package connect negotiates which transport a task uses to reach the
// appliance: the REST management API by default, or a persistent
// CLI-over-SSH shell session when the provider asks for it.
// Package connect 协商任务连接设备所用的传输方式：默认使用 REST 管理 API，
// 当 provider 要求时使用持久的 CLI-over-SSH 会话。
package connect

import (
	"context"
	"fmt"

	"github.com/gundalow-collections/f5networks/internal/client"
	"github.com/gundalow-collections/f5networks/internal/config"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// Transport is an established connection to the appliance.
type Transport interface {
	// Kind reports the negotiated transport name ("rest" or "cli").
	Kind() string
	Close() error
}

// RestTransport wraps the REST client.
type RestTransport struct {
	Client *client.Client
}

func (t *RestTransport) Kind() string { return config.TransportRest }
func (t *RestTransport) Close() error { return nil }

// CliTransport wraps a persistent shell session.
type CliTransport struct {
	Session *ShellSession
}

func (t *CliTransport) Kind() string { return config.TransportCli }
func (t *CliTransport) Close() error { return t.Session.Close() }

// Negotiate picks and bootstraps the transport for an invocation.
// For the CLI transport the shell is driven back to a known prompt state
// before it is handed out.
// Negotiate 为一次调用选择并建立传输。对 CLI 传输，shell 会先被驱动回
// 已知的提示符状态再交给调用方。
func Negotiate(ctx context.Context, p config.ProviderConfig) (Transport, error) {
	transport := p.Transport
	if transport == "" {
		transport = config.TransportRest
	}

	switch transport {
	case config.TransportRest:
		return &RestTransport{Client: client.New(p)}, nil
	case config.TransportCli:
		session, err := DialShell(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", f5errors.ErrShellUnavailable, err)
		}
		if err := session.NormalizePrompt(); err != nil {
			session.Close()
			return nil, err
		}
		return &CliTransport{Session: session}, nil
	default:
		return nil, fmt.Errorf("%w: %s", f5errors.ErrTransportUnknown, transport)
	}
}
