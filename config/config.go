package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Oracle struct {
	APIKey          string        `env:"ORACLE_API_KEY"`
	Model           string        `yaml:"model" env:"ORACLE_MODEL" env-default:"gemini-3-flash-preview"`
	BaseURL         string        `yaml:"base_url" env:"ORACLE_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	Temperature     float32       `yaml:"temperature" env:"ORACLE_TEMPERATURE" env-default:"0.8"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"ORACLE_REQUEST_TIMEOUT" env-default:"30s"`
	MaxPromptTokens int           `yaml:"max_prompt_tokens" env:"ORACLE_MAX_PROMPT_TOKENS" env-default:"3500"`
}

type Telegram struct {
	TelegramAPIToken  string  `env:"TELEGRAM_APITOKEN"`
	AllowedTelegramID []int64 `yaml:"allowed_telegram_id" env:"ALLOWED_TELEGRAM_ID" env-separator:","`
	UpdateTimeout     int     `yaml:"update_timeout" env-default:"60"`
}

const (
	StorageBackendMemory   = "memory"
	StorageBackendKeyValue = "redis"
)

type Storage struct {
	Backend    string        `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"STORAGE_SESSION_TTL" env-default:"24h"`
}

type Redis struct {
	Endpoint string `yaml:"endpoint" env:"REDIS_ENDPOINT" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type Checkout struct {
	PaymentURL  string `yaml:"payment_url" env:"CHECKOUT_PAYMENT_URL" env-default:"https://paylink.monnify.com/Stellararchive"`
	ArchiveLink string `yaml:"archive_link" env:"CHECKOUT_ARCHIVE_LINK" env-default:"https://stellar-archive.io/princewill-cosmas"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type Config struct {
	Oracle   Oracle   `yaml:"oracle"`
	Telegram Telegram `yaml:"telegram"`
	Storage  Storage  `yaml:"storage"`
	Redis    Redis    `yaml:"redis"`
	Checkout Checkout `yaml:"checkout"`
	Log      Log      `yaml:"log"`
}

// LoadConfig reads cfgPath (if given) and then applies environment overrides.
func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath != "" {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
