package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/grading"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		JWTSecret          string `toml:"jwt_secret"`
		RedisURL           string `toml:"redis_url"`
		TokenHeader        string `toml:"token_header"`
		SessionKeyTemplate string `toml:"session_key_template"`
		SessionTTL         string `toml:"session_ttl"`
	} `toml:"auth"`

	API struct {
		UserIDHeader string `toml:"user_id_header"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Roster struct {
		MaxTeamSize int `toml:"max_team_size"`
	} `toml:"roster"`

	Budget struct {
		ShowPending bool `toml:"show_pending"`
	} `toml:"budget"`

	Grading grading.Grader `toml:"grading"`
}

// envOverrides maps environment variables onto config fields they replace.
func (c *Config) envOverrides() map[string]*string {
	return map[string]*string{
		"OLYMPIAD_DATABASE_DSN": &c.Database.DSN,
		"OLYMPIAD_JWT_SECRET":   &c.Auth.JWTSecret,
		"OLYMPIAD_REDIS_URL":    &c.Auth.RedisURL,
	}
}

func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	for name, field := range config.envOverrides() {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			logger.Debug.Printf("Config value overridden by %s", name)
			*field = v
		}
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if config.API.UserIDHeader == "" {
		config.API.UserIDHeader = "X-User-ID"
	}
	if config.Auth.TokenHeader == "" {
		config.Auth.TokenHeader = "Authorization"
	}
	if config.Auth.SessionKeyTemplate == "" {
		config.Auth.SessionKeyTemplate = "session:{session}"
	}
	if config.Roster.MaxTeamSize <= 0 {
		config.Roster.MaxTeamSize = models.MaxTeamSize
	}
	if config.Server.EnableAuth && config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth is enabled but jwt_secret is empty")
	}

	logger.Debug.Printf("Loaded roster config: %+v, grading config: %+v", config.Roster, config.Grading)

	return &config, nil
}
