// Package config loads the service configuration.
//
// Precedence, highest first: environment variables (HRPORTAL_ prefix, dots
// replaced by underscores), the YAML config file, a .env file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "HRPORTAL"

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Parser     ParserConfig     `mapstructure:"parser"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Chatbot    ChatbotConfig    `mapstructure:"chatbot"`
	Onboarding OnboardingConfig `mapstructure:"onboarding"`
	Upload     UploadConfig     `mapstructure:"upload"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	BodyLimitMB  int             `mapstructure:"body_limit_mb"`
	CORSOrigins  string          `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	RPS     float64       `mapstructure:"rps"`
	Burst   int           `mapstructure:"burst"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"` // s3 | memory
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	// APIKeyHashes maps a client name to the bcrypt hash of its API key.
	APIKeyHashes map[string]string `mapstructure:"api_key_hashes"`
}

type ParserConfig struct {
	Backend    string           `mapstructure:"backend"` // extract_api | openai
	ExtractAPI ExtractAPIConfig `mapstructure:"extract_api"`
	MaxPages   int              `mapstructure:"max_pages"`
}

type ExtractAPIConfig struct {
	BaseURL    string               `mapstructure:"base_url"`
	APIKey     string               `mapstructure:"api_key"`
	TemplateID string               `mapstructure:"template_id"`
	Timeout    time.Duration        `mapstructure:"timeout"`
	Breaker    CircuitBreakerConfig `mapstructure:"breaker"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"min_requests"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
}

type WorkerConfig struct {
	Concurrency    int           `mapstructure:"concurrency"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	DequeueTimeout time.Duration `mapstructure:"dequeue_timeout"`
	DelayedSweep   string        `mapstructure:"delayed_sweep"`
	OverdueSweep   string        `mapstructure:"overdue_sweep"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	ChatModel      string `mapstructure:"chat_model"`
	VisionModel    string `mapstructure:"vision_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ChatbotConfig struct {
	Provider        string        `mapstructure:"provider"` // openai | gemini | none
	FAQMaxDistance  float64       `mapstructure:"faq_max_distance"`
	FallbackMessage string        `mapstructure:"fallback_message"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Rules           []ChatRule    `mapstructure:"rules"`
}

type ChatRule struct {
	Keywords []string `mapstructure:"keywords"`
	Answer   string   `mapstructure:"answer"`
}

type OnboardingConfig struct {
	Tasks []OnboardingTaskConfig `mapstructure:"tasks"`
}

type OnboardingTaskConfig struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	DueInDays   int    `mapstructure:"due_in_days"`
}

type UploadConfig struct {
	MaxSizeMB    int      `mapstructure:"max_size_mb"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// Load reads configuration. An empty path searches ./config.yaml and
// /etc/hrportal/config.yaml.
func Load(path string) (*Config, error) {
	// A missing .env is the common case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errx.Wrap(err, "failed to load .env", errx.TypeValidation)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/hrportal/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errx.Wrap(err, "failed to read config file", errx.TypeValidation)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errx.Wrap(err, "failed to decode config", errx.TypeValidation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_json", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit_mb", 12)
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rps", 2.0)
	v.SetDefault("server.rate_limit.burst", 10)
	v.SetDefault("server.rate_limit.ttl", 10*time.Minute)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "hrportal")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.backend", "s3")
	v.SetDefault("storage.prefix", "uploads")

	v.SetDefault("auth.issuer", "hrportal")
	v.SetDefault("auth.token_ttl", 8*time.Hour)

	v.SetDefault("parser.backend", "extract_api")
	v.SetDefault("parser.max_pages", 4)
	v.SetDefault("parser.extract_api.timeout", 60*time.Second)
	v.SetDefault("parser.extract_api.breaker.enabled", true)
	v.SetDefault("parser.extract_api.breaker.max_requests", 3)
	v.SetDefault("parser.extract_api.breaker.interval", time.Minute)
	v.SetDefault("parser.extract_api.breaker.timeout", 30*time.Second)
	v.SetDefault("parser.extract_api.breaker.min_requests", 5)
	v.SetDefault("parser.extract_api.breaker.failure_threshold", 0.6)

	v.SetDefault("worker.concurrency", 3)
	v.SetDefault("worker.max_attempts", 3)
	v.SetDefault("worker.dequeue_timeout", 5*time.Second)
	v.SetDefault("worker.delayed_sweep", "@every 30s")
	v.SetDefault("worker.overdue_sweep", "0 8 * * *")

	v.SetDefault("openai.chat_model", "gpt-4o-mini")
	v.SetDefault("openai.vision_model", "gpt-4o")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")

	v.SetDefault("gemini.model", "gemini-2.0-flash")

	v.SetDefault("chatbot.provider", "openai")
	v.SetDefault("chatbot.faq_max_distance", 0.25)
	v.SetDefault("chatbot.timeout", 20*time.Second)
	v.SetDefault("chatbot.fallback_message",
		"Sorry, I could not find an answer. Please contact the HR team.")

	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("upload.allowed_types", []string{"pdf", "jpeg", "png", "docx"})
}

var validationErr = errx.NewRegistry("CONFIG")

var CodeInvalidConfig = validationErr.Register("INVALID", errx.TypeValidation, 500, "Invalid configuration")

// Validate checks the combinations a service cannot start with.
func (c *Config) Validate() error {
	problems := map[string]any{}

	switch c.Parser.Backend {
	case "extract_api":
		if c.Parser.ExtractAPI.BaseURL == "" {
			problems["parser.extract_api.base_url"] = "required when parser.backend=extract_api"
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			problems["openai.api_key"] = "required when parser.backend=openai"
		}
	default:
		problems["parser.backend"] = fmt.Sprintf("unknown backend %q", c.Parser.Backend)
	}

	switch c.Chatbot.Provider {
	case "openai", "gemini", "none":
	default:
		problems["chatbot.provider"] = fmt.Sprintf("unknown provider %q", c.Chatbot.Provider)
	}

	switch c.Storage.Backend {
	case "s3":
		if c.Storage.Bucket == "" {
			problems["storage.bucket"] = "required when storage.backend=s3"
		}
	case "memory":
	default:
		problems["storage.backend"] = fmt.Sprintf("unknown backend %q", c.Storage.Backend)
	}

	if c.Worker.Concurrency < 1 {
		problems["worker.concurrency"] = "must be at least 1"
	}
	if c.Worker.MaxAttempts < 1 {
		problems["worker.max_attempts"] = "must be at least 1"
	}

	if len(problems) > 0 {
		return validationErr.New(CodeInvalidConfig).WithDetails(problems)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (u UploadConfig) MaxUploadBytes() int {
	return u.MaxSizeMB * 1024 * 1024
}
