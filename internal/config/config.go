// Package config loads the daemon settings from config.yaml and TASKPRO_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/ringer"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

const (
	FileName  = "config.yaml"
	EnvPrefix = "TASKPRO"

	DefaultServerPort = common.DefaultTCPPort
	DefaultRPCPort    = 4041
	DefaultMaxConns   = 64
)

var (
	ErrInvalidWindow = errors.New("invalid alarm window")
	ErrConfigExists  = errors.New("config file already exists")
)

// Config represents the full taskpro configuration.
type Config struct {
	Alarm   AlarmConfig   `yaml:"alarm" mapstructure:"alarm"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	RPC     RPCConfig     `yaml:"rpc" mapstructure:"rpc"`
	Sound   SoundConfig   `yaml:"sound" mapstructure:"sound"`
	Notify  NotifyConfig  `yaml:"notify" mapstructure:"notify"`
}

type AlarmConfig struct {
	// Window is how late a scan may be and still fire a task.
	Window       time.Duration `yaml:"window" mapstructure:"window"`
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
}

// MarshalYAML writes durations as strings such as "1m0s".
func (a AlarmConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Window       string `yaml:"window"`
		PollInterval string `yaml:"poll_interval"`
	}{a.Window.String(), a.PollInterval.String()}, nil
}

type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Dir defaults to the config directory when empty.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type ServerConfig struct {
	Port     int `yaml:"port" mapstructure:"port"`
	MaxConns int `yaml:"max_conns" mapstructure:"max_conns"`
}

type RPCConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Port      int    `yaml:"port" mapstructure:"port"`
	ListenAll bool   `yaml:"listen_all" mapstructure:"listen_all"`
	Secret    string `yaml:"secret" mapstructure:"secret"`
	// Origins lists extra hosts allowed to open a WebSocket, e.g.
	// "localhost:5173".
	Origins []string `yaml:"origins" mapstructure:"origins"`
}

type SoundConfig struct {
	// Command is run once per repetition. Empty rings the terminal bell.
	Command  []string      `yaml:"command" mapstructure:"command"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

func (s SoundConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Command  []string `yaml:"command"`
		Interval string   `yaml:"interval"`
	}{s.Command, s.Interval.String()}, nil
}

type NotifyConfig struct {
	Permission string `yaml:"permission" mapstructure:"permission"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Alarm: AlarmConfig{
			Window:       alarm.DefaultWindow,
			PollInterval: alarm.DefaultPollInterval,
		},
		Storage: StorageConfig{
			Backend: tasklib.BackendSQLite,
		},
		Server: ServerConfig{
			// follows TASKPRO_TCP_PORT
			Port:     common.TCPPort(),
			MaxConns: DefaultMaxConns,
		},
		RPC: RPCConfig{
			Port:    DefaultRPCPort,
			Origins: []string{},
		},
		Sound: SoundConfig{
			Command:  []string{},
			Interval: ringer.DefaultInterval,
		},
		Notify: NotifyConfig{
			Permission: string(ringer.PermissionDefault),
		},
	}
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads config.yaml from dir when present, applies TASKPRO_ environment
// overrides (TASKPRO_ALARM_WINDOW overrides alarm.window) and validates the
// result.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := Path(dir)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("alarm.window", d.Alarm.Window)
	v.SetDefault("alarm.poll_interval", d.Alarm.PollInterval)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.max_conns", d.Server.MaxConns)
	v.SetDefault("rpc.enabled", d.RPC.Enabled)
	v.SetDefault("rpc.port", d.RPC.Port)
	v.SetDefault("rpc.listen_all", d.RPC.ListenAll)
	v.SetDefault("rpc.secret", d.RPC.Secret)
	v.SetDefault("rpc.origins", d.RPC.Origins)
	v.SetDefault("sound.command", d.Sound.Command)
	v.SetDefault("sound.interval", d.Sound.Interval)
	v.SetDefault("notify.permission", d.Notify.Permission)
}

// Validate checks value ranges. The alarm window must cover at least one
// poll interval or due tasks could be skipped between two scans.
func (c *Config) Validate() error {
	if c.Alarm.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval %v must be positive", ErrInvalidWindow, c.Alarm.PollInterval)
	}
	if c.Alarm.Window < c.Alarm.PollInterval {
		return fmt.Errorf("%w: window %v is shorter than poll interval %v",
			ErrInvalidWindow, c.Alarm.Window, c.Alarm.PollInterval)
	}
	switch c.Storage.Backend {
	case tasklib.BackendSQLite, tasklib.BackendFile:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if err := validPort("server.port", c.Server.Port); err != nil {
		return err
	}
	if err := validPort("rpc.port", c.RPC.Port); err != nil {
		return err
	}
	if c.Server.MaxConns <= 0 {
		return fmt.Errorf("server.max_conns must be positive, got %d", c.Server.MaxConns)
	}
	if c.Sound.Interval <= 0 {
		return fmt.Errorf("sound.interval must be positive, got %v", c.Sound.Interval)
	}
	if _, err := ringer.ParsePermission(c.Notify.Permission); err != nil {
		return err
	}
	return nil
}

func validPort(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", key, port)
	}
	return nil
}

// Marshal renders c as YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

const header = `# taskpro configuration
# Every key can be overridden with an environment variable, e.g.
# TASKPRO_ALARM_WINDOW=2m or TASKPRO_RPC_ENABLED=true.
`

// WriteDefault writes the default configuration to path. It refuses to
// replace an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	body, err := Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(header), body...), 0644)
}
