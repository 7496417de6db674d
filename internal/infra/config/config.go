package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	HTTPClient HTTPClientConfig `yaml:"http_client"`
	Limiter    LimiterConfig    `yaml:"limiter"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Storage    StorageConfig    `yaml:"storage"`
	CORS       CORSConfig       `yaml:"cors"`
	Client     ClientConfig     `yaml:"client"`
}

type ServerConfig struct {
	Addr                string `yaml:"addr"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HTTPClientConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxRetries     int `yaml:"max_retries"`
}

type LimiterConfig struct {
	MaxConcurrent    int     `yaml:"max_concurrent"`
	RatePerSecond    float64 `yaml:"rate_per_second"`
	QueueWaitSeconds int     `yaml:"queue_wait_seconds"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type StorageConfig struct {
	Type     string `yaml:"type"`
	BasePath string `yaml:"base_path"`
	BaseURL  string `yaml:"base_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ClientConfig is read by deckctl. Endpoint is the backend base URL the
// submission controller posts to.
type ClientConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// WriteTimeout is the server write deadline. It is never shorter than the
// worst case of a queued generation: queue wait, every outbound attempt at
// its full timeout, the linear retry backoff (1s, 2s, ...) and a margin.
func (c *Config) WriteTimeout() time.Duration {
	configured := time.Duration(c.Server.WriteTimeoutSeconds) * time.Second

	attempts := c.HTTPClient.MaxRetries + 1
	backoff := c.HTTPClient.MaxRetries * (c.HTTPClient.MaxRetries + 1) / 2
	worst := time.Duration(c.Limiter.QueueWaitSeconds+attempts*c.HTTPClient.TimeoutSeconds+backoff)*time.Second + writeMargin

	return max(configured, worst)
}

const writeMargin = 10 * time.Second

func Load() (*Config, error) {
	// .env is optional; real environment variables still win.
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnvOverrides(cfg), nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return applyEnvOverrides(cfg), nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTPClient: HTTPClientConfig{
			TimeoutSeconds: 60,
			MaxRetries:     2,
		},
		Limiter: LimiterConfig{
			MaxConcurrent:    10,
			RatePerSecond:    5,
			QueueWaitSeconds: 2,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Storage: StorageConfig{
			Type:     "local",
			BasePath: "./output",
			BaseURL:  "/files",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Client: ClientConfig{
			Endpoint: "http://localhost:8080",
		},
	}
}

func applyEnvOverrides(cfg *Config) *Config {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("LIMITER_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limiter.MaxConcurrent = n
		}
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("STORAGE_BASE_PATH"); v != "" {
		cfg.Storage.BasePath = v
	}
	if v := os.Getenv("STORAGE_BASE_URL"); v != "" {
		cfg.Storage.BaseURL = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("PRESENTATION_ENDPOINT"); v != "" {
		cfg.Client.Endpoint = v
	}
	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
