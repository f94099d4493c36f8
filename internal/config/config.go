package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends accepted by store.backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

const envPrefix = "FINTRACK"

type Config struct {
	Port  string
	Log   Log
	Store Store
	Auth  Auth
}

type Log struct {
	Level    string
	Encoding string // console | json
}

type Store struct {
	Backend string
	DBPath  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type Auth struct {
	SigningKey string
	TokenTTL   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.token_ttl", time.Hour)
}

// Load reads .env (if present), then configs/config.yml (if present), then
// FINTRACK_* environment overrides such as FINTRACK_STORE_BACKEND.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port: v.GetString("port"),
		Log: Log{
			Level:    strings.ToLower(v.GetString("log.level")),
			Encoding: strings.ToLower(v.GetString("log.encoding")),
		},
		Store: Store{
			Backend:       strings.ToLower(v.GetString("store.backend")),
			DBPath:        v.GetString("db.path"),
			RedisAddr:     v.GetString("redis.addr"),
			RedisPassword: v.GetString("redis.password"),
			RedisDB:       v.GetInt("redis.db"),
		},
		Auth: Auth{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(strings.TrimPrefix(c.Port, ":")); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Log.Encoding {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log encoding '%s': must be console or json", c.Log.Encoding))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.DBPath == "" {
			problems = append(problems, "db.path cannot be empty when using sqlite backend")
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			problems = append(problems, "redis.addr cannot be empty when using redis backend")
		}
		if c.Store.RedisDB < 0 {
			problems = append(problems, fmt.Sprintf("invalid redis.db %d: must be >= 0", c.Store.RedisDB))
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid store backend '%s': must be one of %v",
			c.Store.Backend, []string{BackendMemory, BackendSQLite, BackendRedis}))
	}

	if len(c.Auth.SigningKey) < 16 {
		problems = append(problems, "auth.signing_key must be at least 16 characters")
	}
	if c.Auth.TokenTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid auth.token_ttl %v: must be at least 1 minute", c.Auth.TokenTTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
