package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	Env       string `env:"APP_ENV" envDefault:"development"`
	JWTSecret string `env:"JWT_SECRET"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"tribune"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

func New() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("[Env]: unable to load .env file: %v", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", err)
	}

	return &cfg
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
