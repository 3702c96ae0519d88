package main

import (
	"log"

	"nutrition-backend/internal/shared/utils"
)

// Config holds worker-specific configuration.
type Config struct {
	RedisAddr   string
	Concurrency int
}

func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:   utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		Concurrency: 20,
	}

	log.Printf("[Config] Redis: %s", cfg.RedisAddr)
	return cfg
}
