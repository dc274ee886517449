// Package config loads termblog settings with viper. Values come from, in
// increasing priority, built in defaults, a .termblog.yaml file, and
// TERMBLOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Content  Content  `mapstructure:"content"`
	Cache    Cache    `mapstructure:"cache"`
	Terminal Terminal `mapstructure:"terminal"`
	SSH      SSH      `mapstructure:"ssh"`
	Web      Web      `mapstructure:"web"`
	MCP      MCP      `mapstructure:"mcp"`
	Log      Log      `mapstructure:"log"`
}

type Content struct {
	// BaseURL points at the directory holding Document/. Empty serves the
	// embedded articles.
	BaseURL string `mapstructure:"base_url"`
}

type Cache struct {
	// Dir enables the on-disk article mirror.
	Dir string `mapstructure:"dir"`
}

type Terminal struct {
	User                   string        `mapstructure:"user"`
	Host                   string        `mapstructure:"host"`
	Theme                  string        `mapstructure:"theme"`
	SuggestionLimit        int           `mapstructure:"suggestion_limit"`
	PreserveWelcomeOnClear bool          `mapstructure:"preserve_welcome_on_clear"`
	MinDelay               time.Duration `mapstructure:"min_delay"`
	MaxDelay               time.Duration `mapstructure:"max_delay"`
}

type SSH struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	HostKeyPath string `mapstructure:"host_key_path"`
}

type Web struct {
	Addr string `mapstructure:"addr"`
}

type MCP struct {
	Transport string `mapstructure:"transport"`
	Addr      string `mapstructure:"addr"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default is the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Terminal: Terminal{
			User:                   "AFulcrum",
			Host:                   "blog",
			Theme:                  "green",
			SuggestionLimit:        6,
			PreserveWelcomeOnClear: true,
			MinDelay:               100 * time.Millisecond,
			MaxDelay:               400 * time.Millisecond,
		},
		SSH: SSH{
			Host:        "localhost",
			Port:        23234,
			HostKeyPath: "~/.termblog/ssh_host_ed25519",
		},
		Web: Web{Addr: "localhost:8080"},
		MCP: MCP{Transport: "stdio", Addr: "localhost:8081"},
		Log: Log{Level: "info"},
	}
}

// Load reads the config file, if any, and the environment.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigName(".termblog") // .yaml is implicit
	v.SetEnvPrefix("TERMBLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("TERMBLOG_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every key
// gets a default, even the empty ones.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("content.base_url", d.Content.BaseURL)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("terminal.user", d.Terminal.User)
	v.SetDefault("terminal.host", d.Terminal.Host)
	v.SetDefault("terminal.theme", d.Terminal.Theme)
	v.SetDefault("terminal.suggestion_limit", d.Terminal.SuggestionLimit)
	v.SetDefault("terminal.preserve_welcome_on_clear", d.Terminal.PreserveWelcomeOnClear)
	v.SetDefault("terminal.min_delay", d.Terminal.MinDelay)
	v.SetDefault("terminal.max_delay", d.Terminal.MaxDelay)
	v.SetDefault("ssh.host", d.SSH.Host)
	v.SetDefault("ssh.port", d.SSH.Port)
	v.SetDefault("ssh.host_key_path", d.SSH.HostKeyPath)
	v.SetDefault("web.addr", d.Web.Addr)
	v.SetDefault("mcp.transport", d.MCP.Transport)
	v.SetDefault("mcp.addr", d.MCP.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Validate checks the values a session cannot work around.
func (c Config) Validate() error {
	switch {
	case c.Terminal.SuggestionLimit < 0:
		return fmt.Errorf("%w: terminal.suggestion_limit must not be negative", ErrInvalid)
	case c.Terminal.MinDelay < 0:
		return fmt.Errorf("%w: terminal.min_delay must not be negative", ErrInvalid)
	case c.Terminal.MaxDelay < c.Terminal.MinDelay:
		return fmt.Errorf("%w: terminal.max_delay %s is below min_delay %s", ErrInvalid, c.Terminal.MaxDelay, c.Terminal.MinDelay)
	case c.SSH.Port < 0 || c.SSH.Port > 65535:
		return fmt.Errorf("%w: ssh.port %d out of range", ErrInvalid, c.SSH.Port)
	}
	switch c.MCP.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("%w: mcp.transport %q, want stdio or http", ErrInvalid, c.MCP.Transport)
	}
	return nil
}
