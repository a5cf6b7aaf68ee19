package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vocdoni/staticd/config"
	"github.com/vocdoni/staticd/log"
)

// Version is the build version, set at build time with -ldflags
var Version = "dev"

// Config holds the application configuration
type Config struct {
	ConfigFile string          `mapstructure:"config"`
	Host       string          `mapstructure:"host"`
	Port       int             `mapstructure:"port"`
	WebRoot    string          `mapstructure:"webRoot"`
	Log        LogConfig       `mapstructure:"log"`
	AccessLog  AccessLogConfig `mapstructure:"accessLog"`
	Server     ServerConfig    `mapstructure:"server"`
	API        APIConfig       `mapstructure:"api"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// AccessLogConfig holds the access log configuration
type AccessLogConfig struct {
	Dir string `mapstructure:"dir"`
}

// ServerConfig holds the connection handling limits
type ServerConfig struct {
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	MaxConnections int64         `mapstructure:"maxConnections"`
	GzipCacheSize  int           `mapstructure:"gzipCacheSize"`
}

// APIConfig holds the admin API configuration
type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// fileConfig is what gets written when no configuration file exists yet.
type fileConfig struct {
	Port    int    `json:"port"`
	WebRoot string `json:"webRoot"`
}

// loadConfig loads configuration from flags, environment variables, the
// JSON config file and defaults, in that order of precedence. If the config
// file does not exist it is created with the default port and web root.
func loadConfig(args []string) (*Config, error) {
	v := viper.New()

	v.SetDefault("config", config.DefaultConfigFile)
	v.SetDefault("host", config.DefaultHost)
	v.SetDefault("port", config.DefaultPort)
	v.SetDefault("webRoot", config.DefaultWebRoot)
	v.SetDefault("log.level", config.DefaultLogLevel)
	v.SetDefault("log.output", config.DefaultLogOutput)
	v.SetDefault("accessLog.dir", config.DefaultAccessLogDir)
	v.SetDefault("server.readTimeout", config.DefaultReadTimeout)
	v.SetDefault("server.writeTimeout", config.DefaultWriteTimeout)
	v.SetDefault("server.maxConnections", config.DefaultMaxConnections)
	v.SetDefault("server.gzipCacheSize", config.DefaultGzipCacheSize)
	v.SetDefault("api.enabled", false)
	v.SetDefault("api.host", config.DefaultAPIHost)
	v.SetDefault("api.port", config.DefaultAPIPort)

	// Configure flags
	flags := flag.NewFlagSet("staticd", flag.ContinueOnError)
	flags.StringP("config", "c", config.DefaultConfigFile, "JSON configuration file, created with defaults if missing")
	flags.StringP("host", "a", config.DefaultHost, "host to listen on")
	flags.IntP("port", "p", config.DefaultPort, "port to listen on")
	flags.StringP("webRoot", "w", config.DefaultWebRoot, "directory to serve files from")
	flags.StringP("log.level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringP("log.output", "o", config.DefaultLogOutput, "log output (stdout, stderr or filepath)")
	flags.String("accessLog.dir", config.DefaultAccessLogDir, "directory for the daily access log files (empty disables them)")
	flags.Duration("server.readTimeout", config.DefaultReadTimeout, "maximum time to read a request (0 disables it)")
	flags.Duration("server.writeTimeout", config.DefaultWriteTimeout, "maximum time to write a response (0 disables it)")
	flags.Int64("server.maxConnections", config.DefaultMaxConnections, "maximum connections handled at once (0 is unbounded)")
	flags.Int("server.gzipCacheSize", config.DefaultGzipCacheSize, "number of compressed files kept in memory (0 disables the cache)")
	flags.Bool("api.enabled", false, "enable the admin API")
	flags.String("api.host", config.DefaultAPIHost, "admin API host")
	flags.Int("api.port", config.DefaultAPIPort, "admin API port")

	// Configure usage information
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "staticd %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: staticd [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  upper-cased and with dots (.) replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, STATICD_PORT or STATICD_LOG_LEVEL\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Serve ./www on port 8080 using ./config.json\n")
		fmt.Fprintf(os.Stderr, "  staticd\n\n")
		fmt.Fprintf(os.Stderr, "  # Serve another directory with the admin API enabled\n")
		fmt.Fprintf(os.Stderr, "  staticd --webRoot=/srv/site --port=80 --api.enabled\n")
	}

	flags.SortFlags = false
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	// Configure Viper to use environment variables
	v.SetEnvPrefix("STATICD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind flags to Viper
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	// Read the config file, creating it on first start
	configFile := v.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if filepath.Ext(configFile) == "" {
			v.SetConfigType("json")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
			if err := writeDefaultConfig(configFile); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// writeDefaultConfig creates path with the default port and web root.
func writeDefaultConfig(path string) error {
	data, err := json.MarshalIndent(fileConfig{
		Port:    config.DefaultPort,
		WebRoot: config.DefaultWebRoot,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding default config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("error writing default config %s: %w", path, err)
	}
	return nil
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.WebRoot == "" {
		return fmt.Errorf("web root is required (use --webRoot flag or STATICD_WEBROOT environment variable)")
	}
	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	if cfg.Server.MaxConnections < 0 {
		return fmt.Errorf("invalid max connections %d", cfg.Server.MaxConnections)
	}
	if cfg.Server.GzipCacheSize < 0 {
		return fmt.Errorf("invalid gzip cache size %d", cfg.Server.GzipCacheSize)
	}
	if cfg.API.Enabled && (cfg.API.Port < 1 || cfg.API.Port > 65535) {
		return fmt.Errorf("invalid API port %d", cfg.API.Port)
	}
	return nil
}
