package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	DefaultStartingChips int64 `env:"DEFAULT_STARTING_CHIPS" envDefault:"10000"`
	DefaultBlindTimeSecs int   `env:"DEFAULT_BLIND_TIME_SECONDS" envDefault:"600"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
