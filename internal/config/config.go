package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvDevelopment relaxes cookie attributes for plain-HTTP local serving.
	EnvDevelopment = "development"
	// EnvProduction enforces Secure, SameSite=Strict cookies.
	EnvProduction = "production"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Redis struct {
		// Addr of the session store; empty selects the in-memory store.
		Addr string
	}
	Session struct {
		Secret string
	}
	Auth struct {
		HashCost int
	}
	App struct {
		Env string
	}
}

// Production reports whether hardened cookie attributes should be used.
func (c Config) Production() bool {
	return c.App.Env == EnvProduction
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	_ = godotenv.Load() // optional .env, real env wins

	v := viper.New()
	v.SetEnvPrefix("GATEHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/gatehouse.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("session.secret", "")
	v.SetDefault("auth.hashcost", 12)
	v.SetDefault("app.env", EnvDevelopment)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.App.Env != EnvDevelopment && cfg.App.Env != EnvProduction {
		return Config{}, fmt.Errorf("unknown app env %q", cfg.App.Env)
	}

	return cfg, nil
}
