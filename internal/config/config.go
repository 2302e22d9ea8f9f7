package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/journey/internal/log"
)

type Application struct {
	Env  string `mapstructure:"env"  json:"env"`
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Storage struct {
	Driver string `mapstructure:"driver" json:"driver"`
	Path   string `mapstructure:"path"   json:"path"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Handoff struct {
	WhatsappNumber string `mapstructure:"whatsapp_number" json:"whatsapp_number"`
	Currency       string `mapstructure:"currency"        json:"currency"`
	DefaultLocale  string `mapstructure:"default_locale"  json:"default_locale"`
}

type Session struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"   json:"idle_timeout"`
	EvictInterval time.Duration `mapstructure:"evict_interval" json:"evict_interval"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Storage     `mapstructure:"storage"     json:"storage"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Handoff     `mapstructure:"handoff"     json:"handoff"`
	Session     `mapstructure:"session"     json:"session"`
}

const (
	StorageBadger = "badger"
	StorageRedis  = "redis"
)

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("storage.driver", StorageBadger)
	v.SetDefault("storage.path", "/var/lib/journey")
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
	v.SetDefault("handoff.currency", "€")
	v.SetDefault("handoff.default_locale", "en")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.evict_interval", "5m")
}

func unmarshal(v *viper.Viper) (Config, error) {
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	switch cfg.Storage.Driver {
	case StorageBadger, StorageRedis:
	default:
		return Config{}, fmt.Errorf("unknown storage driver=%s", cfg.Storage.Driver)
	}
	return cfg, nil
}

func Get(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "config Get").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		v := viper.New()
		v.SetConfigName(filename)
		v.AddConfigPath("./env")
		v.SetConfigType("yaml")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		setDefaults(v)

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := v.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		cfg, err := unmarshal(v)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
