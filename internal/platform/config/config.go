package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port"`

	DB struct {
		// DSN vacío => repos in-memory (modo dev).
		DSN         string `mapstructure:"dsn"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"db"`

	JWT struct {
		// Secret vacío => modo dev (X-Debug-User-ID / X-Debug-Role).
		Secret   string        `mapstructure:"secret"`
		Issuer   string        `mapstructure:"issuer"`
		TokenTTL time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"jwt"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	App struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"app"`

	Adoptions struct {
		HoldPetOnSubmit   bool `mapstructure:"hold_pet_on_submit"`
		CompletionRetries int  `mapstructure:"completion_retries"`
	} `mapstructure:"adoptions"`

	Notify struct {
		WebhookURL string        `mapstructure:"webhook_url"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"notify"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")

	v.SetDefault("db.dsn", "")
	v.SetDefault("db.auto_migrate", false)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "pet-adoption-hub")
	v.SetDefault("jwt.token_ttl", "1h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("app.name", "pet-adoption-hub")

	v.SetDefault("adoptions.hold_pet_on_submit", true)
	v.SetDefault("adoptions.completion_retries", 3)

	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.timeout", "5s")
}

// Load lee config desde (en orden de prioridad): env, archivo opcional, defaults.
// Env: PORT, DB_DSN, JWT_SECRET, LOG_LEVEL, ADOPTIONS_HOLD_PET_ON_SUBMIT, etc.
func Load(file string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: port required")
	}
	if c.Adoptions.CompletionRetries < 1 {
		return errors.New("config: adoptions.completion_retries must be >= 1")
	}
	if c.JWT.Secret != "" && len(c.JWT.Secret) < 16 {
		return errors.New("config: jwt.secret must be at least 16 chars")
	}
	return nil
}

// DevMode indica que no hay verificación de tokens.
func (c Config) DevMode() bool {
	return strings.TrimSpace(c.JWT.Secret) == ""
}
