package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable read from the environment. Defaults are
// chosen so that a bare `go run .` works against the checked-in data/
// directory.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// SecretKey seeds the daily answer cycle. The default keeps
	// development deterministic; production deployments must override it.
	SecretKey string `env:"SECRET_KEY" envDefault:"dev-secret-key-change-in-production"`

	WordsFile   string `env:"WORDS_FILE" envDefault:"data/valid_words.txt"`
	AnswersFile string `env:"ANSWERS_FILE" envDefault:"data/answer_words.txt"`

	// DayOffset is the fixed offset from UTC at which the daily word
	// rolls over. 5h30m pins rollover to IST midnight.
	DayOffset time.Duration `env:"DAY_OFFSET" envDefault:"5h30m"`

	CookieMaxAge   time.Duration `env:"COOKIE_MAX_AGE" envDefault:"2h"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"48h"`
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	RateLimiterTTL time.Duration `env:"RATE_LIMITER_TTL" envDefault:"1h"`
	StaticCacheAge time.Duration `env:"STATIC_CACHE_AGE" envDefault:"5m"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsProduction mirrors the gin convention: release mode or an explicit
// production environment flag.
func IsProduction() bool {
	return os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
}
