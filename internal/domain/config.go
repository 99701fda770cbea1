package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Session SessionConfig `mapstructure:"session"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig contains transient storage configuration. Every
// acquisition gets its own subdirectory under Dir and removes it before
// the request finishes; nothing here is retained.
type StorageConfig struct {
	Dir     string `mapstructure:"dir"`
	LogsDir string `mapstructure:"logs_dir"`
}

// EngineConfig contains extraction-engine configuration
type EngineConfig struct {
	Binary        string        `mapstructure:"binary"`
	CookieFile    string        `mapstructure:"cookie_file"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

// SessionConfig contains the cookie-session configuration. SecretKey has
// no default and must be supplied (MEDIAFETCH_SESSION_SECRET_KEY or the
// config file); startup fails without it.
type SessionConfig struct {
	SecretKey  string `mapstructure:"secret_key"`
	CookieName string `mapstructure:"cookie_name"`
}

// HistoryConfig contains acquisition-history configuration
type HistoryConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Dir:     "downloads",
			LogsDir: "logs",
		},
		Engine: EngineConfig{
			Binary:        "yt-dlp",
			CookieFile:    "cookies.txt",
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.75 Safari/537.36",
			Timeout:       15 * time.Minute,
			MaxConcurrent: 4,
		},
		Session: SessionConfig{
			CookieName: "mediafetch_session",
		},
		History: HistoryConfig{
			DatabasePath: "mediafetch.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
