package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gundalow-collections/f5networks/internal/utils/logger"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const (
	// DefaultConfigPath is the standard location for the f5ctl configuration file.
	// DefaultConfigPath 是 f5ctl 配置文件的标准位置。
	DefaultConfigPath = "/etc/f5ctl/config.yaml"

	// DefaultServerPort is the management port of the appliance REST API.
	// DefaultServerPort 是设备 REST 管理 API 的端口。
	DefaultServerPort = 443

	// DefaultTimeout is the per-request timeout in seconds.
	// DefaultTimeout 是单个请求的超时时间（秒）。
	DefaultTimeout = 120

	// TransportRest selects the REST management API transport.
	TransportRest = "rest"
	// TransportCli selects the CLI-over-SSH transport.
	TransportCli = "cli"
)

// DefaultConfigTemplate defines the default configuration file structure with bilingual comments.
// This template is used to initialize new config files while preserving documentation.
const DefaultConfigTemplate = `# f5ctl Configuration File / f5ctl 配置文件
#

# Provider: connection parameters for the managed appliance.
# Provider：被管理设备的连接参数。
provider:
  # Management address of the appliance / 设备管理地址
  server: ""
  # Management port / 管理端口
  server_port: 443
  user: "admin"
  password: ""
  # Verify the device TLS certificate / 校验设备 TLS 证书
  validate_certs: true
  # Transport: rest (management API) or cli (persistent SSH shell)
  # 传输方式：rest（管理 API）或 cli（持久 SSH 会话）
  transport: "rest"
  # SSH private key file, used by the cli transport only
  # SSH 私钥文件，仅 cli 传输使用
  ssh_keyfile: ""
  # Request timeout in seconds / 请求超时（秒）
  timeout: 120

# Logging Configuration / 日志配置
logging:
  enabled: true
  level: "info"
  path: "/var/log/f5ctl/f5ctl.log"
  max_size: 50
  max_backups: 3
  max_age: 28
  compress: true

# Audit log of applied changes, one JSON record per reconcile.
# 已应用变更的审计日志，每次调谐一条 JSON 记录。
audit:
  enabled: true
  path: "/var/log/f5ctl/audit.log"
`

// ProviderConfig carries the connection parameters for the target appliance.
// ProviderConfig 保存目标设备的连接参数。
type ProviderConfig struct {
	Server        string `yaml:"server" validate:"required"`
	ServerPort    int    `yaml:"server_port" validate:"gte=0,lte=65535"`
	User          string `yaml:"user" validate:"required"`
	Password      string `yaml:"password"`
	ValidateCerts bool   `yaml:"validate_certs"`
	Transport     string `yaml:"transport" validate:"omitempty,oneof=rest cli"`
	SSHKeyfile    string `yaml:"ssh_keyfile"`
	Timeout       int    `yaml:"timeout" validate:"gte=0"`
}

// AuditConfig controls the local change-audit sink.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the root configuration document.
// Config 是配置文件的根结构。
type Config struct {
	Provider ProviderConfig       `yaml:"provider"`
	Logging  logger.LoggingConfig `yaml:"logging"`
	Audit    AuditConfig          `yaml:"audit"`
}

var validate = validator.New()

// Defaults returns a configuration populated with default values.
// Defaults 返回填充了默认值的配置。
func Defaults() *Config {
	return &Config{
		Provider: ProviderConfig{
			ServerPort:    DefaultServerPort,
			User:          "admin",
			ValidateCerts: true,
			Transport:     TransportRest,
			Timeout:       DefaultTimeout,
		},
		Logging: logger.LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Path:       "",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		},
		Audit: AuditConfig{
			Enabled: false,
		},
	}
}

// Load reads, merges and validates the configuration at path.
// Environment fallbacks (F5_SERVER, F5_USER, F5_PASSWORD, F5_SERVER_PORT)
// fill provider fields left empty by the file.
// Load 读取、合并并校验指定路径的配置。
func Load(path string) (*Config, error) {
	safePath := filepath.Clean(path)
	data, err := os.ReadFile(safePath)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, f5errors.NewConfigError("yaml", err.Error())
	}

	applyEnvFallbacks(&cfg.Provider)

	if err := validate.Struct(cfg); err != nil {
		return nil, f5errors.NewConfigError("provider", err.Error())
	}
	return cfg, nil
}

// LoadOrDefaults behaves like Load but falls back to defaults (plus env
// fallbacks) when the file does not exist.
// LoadOrDefaults 与 Load 相同，但文件不存在时回退到默认值。
func LoadOrDefaults(path string) *Config {
	cfg, err := Load(path)
	if err == nil {
		return cfg
	}
	def := Defaults()
	applyEnvFallbacks(&def.Provider)
	return def
}

// Save writes the configuration back to disk.
// Save 将配置写回磁盘。
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	safePath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(safePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(safePath, data, 0600)
}

// WriteDefault writes the commented default template, refusing to clobber an
// existing file.
// WriteDefault 写入带注释的默认模板，不会覆盖已存在的文件。
func WriteDefault(path string) error {
	safePath := filepath.Clean(path)
	if _, err := os.Stat(safePath); err == nil {
		return f5errors.NewConfigError("path", "already exists: "+safePath)
	}
	if err := os.MkdirAll(filepath.Dir(safePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(safePath, []byte(DefaultConfigTemplate), 0600)
}

func applyEnvFallbacks(p *ProviderConfig) {
	if p.Server == "" {
		p.Server = os.Getenv("F5_SERVER")
	}
	if p.User == "" {
		p.User = os.Getenv("F5_USER")
	}
	if p.Password == "" {
		p.Password = os.Getenv("F5_PASSWORD")
	}
	if v := os.Getenv("F5_SERVER_PORT"); v != "" && p.ServerPort == DefaultServerPort {
		if port, err := strconv.Atoi(v); err == nil {
			p.ServerPort = port
		}
	}
	if v := os.Getenv("F5_VALIDATE_CERTS"); v != "" {
		p.ValidateCerts = v != "no" && v != "false" && v != "0"
	}
}
