// Package config loads streamwall settings through viper.
//
// Settings come from, in order of precedence: command-line flags bound by the
// CLI, STREAMWALL_* environment variables (dots become underscores, so
// store.redis.addr is STREAMWALL_STORE_REDIS_ADDR), the YAML config file and
// the defaults below.
//
//	store:
//	  backend: file          # file, memory, null, redis, mongo
//	  dir: ~/.cache/streamwall
//	grid:
//	  breakpoint: 768
//	  target_row_px: 180
//	live:
//	  endpoint: https://resolver.example.com
//	  interval_seconds: 60
//	server:
//	  addr: 127.0.0.1:8080
//	logging:
//	  level: info
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/project"
	"github.com/matzehuels/streamwall/pkg/store"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "STREAMWALL"

// Config is the complete application configuration.
type Config struct {
	Project ProjectConfig `mapstructure:"project"`
	Store   store.Config  `mapstructure:"store"`
	Grid    grid.Params   `mapstructure:"grid"`
	Live    LiveConfig    `mapstructure:"live"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ProjectConfig locates the project file.
type ProjectConfig struct {
	File string `mapstructure:"file"`
}

// LiveConfig configures live-status polling.
type LiveConfig struct {
	// Endpoint is the base URL of the resolver service. Polling is disabled
	// when empty.
	Endpoint        string `mapstructure:"endpoint"`
	Token           string `mapstructure:"token"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// Interval returns the poll interval.
func (c LiveConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// CacheTTL returns how long polled statuses stay cached.
func (c LiveConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Timeout returns the per-request timeout.
func (c LiveConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr                string `mapstructure:"addr"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

// ReadTimeout returns the server read timeout.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{File: project.DefaultFile},
		Store: store.Config{
			Backend: store.BackendFile,
			Dir:     CacheDir(),
			Redis:   store.RedisConfig{Addr: "localhost:6379"},
			Mongo: store.MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "streamwall",
				Collection: "blobs",
			},
		},
		Grid: grid.DefaultParams(),
		Live: LiveConfig{
			IntervalSeconds: 60,
			CacheTTLSeconds: 120,
			TimeoutSeconds:  15,
		},
		Server: ServerConfig{
			Addr:                "127.0.0.1:8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// SetDefaults registers the defaults with the global viper instance.
func SetDefaults() {
	d := Default()

	viper.SetDefault("project.file", d.Project.File)

	viper.SetDefault("store.backend", d.Store.Backend)
	viper.SetDefault("store.dir", d.Store.Dir)
	viper.SetDefault("store.redis.addr", d.Store.Redis.Addr)
	viper.SetDefault("store.redis.password", d.Store.Redis.Password)
	viper.SetDefault("store.redis.db", d.Store.Redis.DB)
	viper.SetDefault("store.mongo.uri", d.Store.Mongo.URI)
	viper.SetDefault("store.mongo.database", d.Store.Mongo.Database)
	viper.SetDefault("store.mongo.collection", d.Store.Mongo.Collection)

	viper.SetDefault("grid.breakpoint", d.Grid.Breakpoint)
	viper.SetDefault("grid.target_row_px", d.Grid.TargetRowPx)
	viper.SetDefault("grid.chrome_px", d.Grid.ChromePx)
	viper.SetDefault("grid.aspect_w", d.Grid.AspectW)
	viper.SetDefault("grid.aspect_h", d.Grid.AspectH)

	viper.SetDefault("live.endpoint", d.Live.Endpoint)
	viper.SetDefault("live.token", d.Live.Token)
	viper.SetDefault("live.interval_seconds", d.Live.IntervalSeconds)
	viper.SetDefault("live.cache_ttl_seconds", d.Live.CacheTTLSeconds)
	viper.SetDefault("live.timeout_seconds", d.Live.TimeoutSeconds)

	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.read_timeout_seconds", d.Server.ReadTimeoutSeconds)
	viper.SetDefault("server.write_timeout_seconds", d.Server.WriteTimeoutSeconds)

	viper.SetDefault("logging.level", d.Logging.Level)
}

// Init points viper at the config file and environment. An empty cfgFile
// searches config.yaml in [ConfigDir] and the working directory. A missing
// file is not an error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return err
	}
	return nil
}

// Load reads the configuration from viper into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Get returns the loaded configuration, or the defaults when it is invalid.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the user's streamwall config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "streamwall")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".streamwall"
	}
	return filepath.Join(home, ".config", "streamwall")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// CacheDir returns the default file store directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "streamwall")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "streamwall")
	}
	return filepath.Join(home, ".cache", "streamwall")
}
