package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env     string          `yaml:"env"`
	HTTP    HTTPConfig      `yaml:"http"`
	Log     LogConfig       `yaml:"log"`
	Bot     BotConfig       `yaml:"bot"`
	Payment PaymentConfig   `yaml:"payment"`
	Web     WebConfig       `yaml:"web"`
	Catalog []ProductConfig `yaml:"catalog"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type BotConfig struct {
	Token      string `yaml:"token"`
	WebhookURL string `yaml:"webhook_url"`
}

type PaymentConfig struct {
	SimulationOnly     bool          `yaml:"simulation_only"`
	EnableRealPayments bool          `yaml:"enable_real_payments"`
	ProviderSecretKey  string        `yaml:"provider_secret_key"`
	ProviderPublicKey  string        `yaml:"provider_publishable_key"`
	SimulationDelay    time.Duration `yaml:"simulation_delay"`
}

type WebConfig struct {
	StaticDir string `yaml:"static_dir"`
}

type ProductConfig struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	PriceStars    int    `yaml:"price_stars"`
	PhotoURL      string `yaml:"photo_url"`
	SecretContent string `yaml:"secret_content"`
}

const goldPhotoURL = "https://www.silubr.com.tw/data/editor/files/Gold.jpg"

func Default() Config {
	return Config{
		Env: "dev",
		HTTP: HTTPConfig{
			Addr:         ":3001",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Log: LogConfig{Level: "debug"},
		Bot: BotConfig{
			Token:      "",
			WebhookURL: "",
		},
		Payment: PaymentConfig{
			SimulationOnly:     false,
			EnableRealPayments: false,
			SimulationDelay:    2 * time.Second,
		},
		Web: WebConfig{
			StaticDir: "public",
		},
		Catalog: []ProductConfig{
			{
				ID:            "gold_100",
				Title:         "10金幣",
				Description:   "儲值100金幣",
				PriceStars:    200,
				PhotoURL:      goldPhotoURL,
				SecretContent: "恭喜！您的金幣是: 100",
			},
			{
				ID:            "gold_200",
				Title:         "20金幣",
				Description:   "儲值200金幣",
				PriceStars:    400,
				PhotoURL:      goldPhotoURL,
				SecretContent: "恭喜！您的金幣是: 200",
			},
			{
				ID:            "gold_500",
				Title:         "50金幣",
				Description:   "儲值500金幣",
				PriceStars:    1000,
				PhotoURL:      goldPhotoURL,
				SecretContent: "恭喜！您的金幣是: 500",
			},
		},
	}
}

func Load(path string) (Config, error) {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token is not configured (set BOT_TOKEN)")
	}
	return nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if err := overrideDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := firstEnv("BOT_TOKEN", "BOT_TOKEN_TEST"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Bot.WebhookURL = v
	}

	if err := overrideBool("SIMULATION_ONLY", &cfg.Payment.SimulationOnly); err != nil {
		return err
	}
	if err := overrideBool("ENABLE_REAL_PAYMENTS", &cfg.Payment.EnableRealPayments); err != nil {
		return err
	}
	if v := firstEnv("STRIPE_SECRET_KEY", "STRIPE_SECRET_KEY_TEST"); v != "" {
		cfg.Payment.ProviderSecretKey = v
	}
	if v := firstEnv("STRIPE_PUBLISHABLE_KEY", "STRIPE_PUBLISHABLE_KEY_TEST"); v != "" {
		cfg.Payment.ProviderPublicKey = v
	}
	if err := overrideDuration("SIMULATION_DELAY", &cfg.Payment.SimulationDelay); err != nil {
		return err
	}

	if v := os.Getenv("WEB_STATIC_DIR"); v != "" {
		cfg.Web.StaticDir = v
	}

	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideBool(key string, target *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parse %s bool: %w", key, err)
	}
	*target = b
	return nil
}
