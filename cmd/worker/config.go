package main

import (
	"log"

	"marketplace-backend/internal/shared/utils"
)

// Config holds worker-local configuration. Job cadences live in the main
// application config; this only covers the queue transport.
type Config struct {
	RedisAddr string
}

func loadConfig() *Config {
	cfg := &Config{
		RedisAddr: utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
	}

	log.Printf("[Config] Redis: %s", cfg.RedisAddr)
	return cfg
}
