package connect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/gundalow-collections/f5networks/internal/config"
)

const (
	defaultSSHPort = 22
	promptTimeout  = 10 * time.Second

	// maxConfigExits bounds the number of `exit` commands sent while
	// climbing out of nested config contexts.
	// maxConfigExits 限制离开嵌套配置上下文时发送 exit 的次数。
	maxConfigExits = 10
)

// conn is the minimal shell the session drives. Tests substitute a fake.
// conn 是会话驱动的最小 shell 抽象，测试中用假实现替换。
type conn interface {
	Send(cmd string) error
	ReadPrompt(timeout time.Duration) (string, error)
	Close() error
}

// ShellSession is a persistent interactive shell on the appliance.
// ShellSession 是设备上的持久交互式 shell。
type ShellSession struct {
	conn conn
}

// DialShell opens an SSH connection and starts an interactive shell.
// DialShell 建立 SSH 连接并启动交互式 shell。
func DialShell(ctx context.Context, p config.ProviderConfig) (*ShellSession, error) {
	auth := []ssh.AuthMethod{}
	if p.SSHKeyfile != "" {
		key, err := os.ReadFile(p.SSHKeyfile)
		if err != nil {
			return nil, fmt.Errorf("read ssh keyfile: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse ssh keyfile: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if p.Password != "" {
		auth = append(auth, ssh.Password(p.Password))
	}

	cfg := &ssh.ClientConfig{
		User:            p.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         10 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", p.Server, defaultSSHPort)
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, err
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty("vt100", 80, 120, modes); err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	sc := &sshConn{
		client:  client,
		session: session,
		stdin:   stdin,
		reader:  bufio.NewReader(stdout),
	}
	return &ShellSession{conn: sc}, nil
}

// Prompt reads the current shell prompt.
func (s *ShellSession) Prompt() (string, error) {
	return s.conn.ReadPrompt(promptTimeout)
}

// Send writes a command to the shell.
func (s *ShellSession) Send(cmd string) error {
	return s.conn.Send(cmd)
}

// Close tears the session down.
func (s *ShellSession) Close() error {
	return s.conn.Close()
}

// NormalizePrompt drives the shell out of any config context. The session is
// usable once the prompt no longer shows a "(config" marker.
// NormalizePrompt 将 shell 驱动出任何配置上下文。提示符不再包含 "(config"
// 标记时会话才可用。
func (s *ShellSession) NormalizePrompt() error {
	for i := 0; i < maxConfigExits; i++ {
		prompt, err := s.Prompt()
		if err != nil {
			return err
		}
		if !strings.Contains(prompt, "(config") {
			return nil
		}
		if err := s.Send("exit"); err != nil {
			return err
		}
	}
	return fmt.Errorf("shell stuck in config context after %d exits", maxConfigExits)
}

type sshConn struct {
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	reader  *bufio.Reader
}

func (c *sshConn) Send(cmd string) error {
	_, err := io.WriteString(c.stdin, cmd+"\n")
	return err
}

// ReadPrompt drains pending output and returns the trailing prompt line.
// ReadPrompt 排空待处理输出并返回末尾的提示符行。
func (c *sshConn) ReadPrompt(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	var buf strings.Builder
	for time.Now().Before(deadline) {
		chunk := make([]byte, 4096)
		n, err := c.reader.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			text := buf.String()
			if line := lastLine(text); isPrompt(line) {
				return line, nil
			}
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("timed out waiting for prompt")
}

func (c *sshConn) Close() error {
	c.session.Close()
	return c.client.Close()
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\r\n "), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

func isPrompt(line string) bool {
	return strings.HasSuffix(line, "#") || strings.HasSuffix(line, ">")
}
