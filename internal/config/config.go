package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/nazmulrahman/young-star-app/internal/model"
)

type Config struct {
	HTTPPort int `env:"HTTP_PORT" env-default:"8080"`

	StoreDriver   string `env:"STORE_DRIVER" env-default:"mongo"`
	MongoURI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" env-default:"young_star"`

	RedisURL string `env:"REDIS_URL"`

	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_NOTIFICATIONS_TOPIC" env-default:"classboard.notifications"`

	SessionSecret  string        `env:"SESSION_SECRET" env-required:"true"`
	SessionIssuer  string        `env:"SESSION_ISSUER" env-default:"young-star"`
	SessionTTL     time.Duration `env:"SESSION_TTL" env-default:"24h"`
	ProviderSecret string        `env:"AUTH_PROVIDER_SECRET" env-required:"true"`

	ProfileCacheTTL     time.Duration `env:"PROFILE_CACHE_TTL" env-default:"5m"`
	ProfileFallbackRole string        `env:"PROFILE_FALLBACK_ROLE" env-default:"student"`

	EngineIdleTTL time.Duration `env:"ENGINE_IDLE_TTL" env-default:"30m"`
}

func New() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig("./config/.env", &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	if cfg.StoreDriver != "mongo" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("STORE_DRIVER must be mongo or memory, got %q", cfg.StoreDriver)
	}
	if cfg.ProfileFallbackRole != "" && !model.Role(cfg.ProfileFallbackRole).IsValid() {
		return nil, fmt.Errorf("PROFILE_FALLBACK_ROLE %q is not a valid role", cfg.ProfileFallbackRole)
	}
	return &cfg, nil
}
