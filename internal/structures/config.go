package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Dsn            string        `yaml:"dsn" validate:"required"`
	Compress       bool          `yaml:"compress"`
	Watch          bool          `yaml:"watch"`
	BackupPath     string        `yaml:"backupPath"`
	BackupInterval time.Duration `yaml:"backupInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type AuthConfig struct {
	Secret     string `yaml:"secret" validate:"required|minLen:8"`
	BcryptCost int    `yaml:"bcryptCost"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MembershipConfig struct {
	RefreshOnRead bool `yaml:"refreshOnRead"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server           `yaml:"webServer"`
	Persistence Persistence      `yaml:"persistence"`
	Logger      LoggerConfig     `yaml:"logger"`
	Auth        AuthConfig       `yaml:"auth"`
	Cache       CacheConfig      `yaml:"cache"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	Membership  MembershipConfig `yaml:"membership"`
}
