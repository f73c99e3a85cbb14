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

type FeedConfig struct {
	URL     string        `yaml:"url" validate:"required|fullUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

type RefreshConfig struct {
	Interval   time.Duration `yaml:"interval" validate:"required|min:1"`
	FitPadding int           `yaml:"fitPadding"`
}

type GithubConfig struct {
	Owner   string `yaml:"owner" validate:"required"`
	Repo    string `yaml:"repo" validate:"required"`
	Token   string `yaml:"token"`
	BaseURL string `yaml:"baseUrl"`
}

type MapConfig struct {
	APIKey       string `yaml:"apiKey"`
	SecurityCode string `yaml:"securityCode"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Feed        FeedConfig    `yaml:"feed"`
	Refresh     RefreshConfig `yaml:"refresh"`
	Github      GithubConfig  `yaml:"github"`
	Map         MapConfig     `yaml:"map"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
