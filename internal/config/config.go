package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsDir  string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	TokenTTLHours  int    `envconfig:"TOKEN_TTL_HOURS" default:"24"`
	BcryptCost     int    `envconfig:"BCRYPT_COST" default:"12"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword  string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	SearchBaseURL  string `envconfig:"SEARCH_BASE_URL" default:""`
	SearchAPIKey   string `envconfig:"SEARCH_API_KEY" default:""`
	SearchEngineID string `envconfig:"SEARCH_ENGINE_ID" default:""`
	InviteTTLHours int    `envconfig:"INVITE_TTL_HOURS" default:"168"`
	Version        string `envconfig:"VERSION" default:"dev"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
