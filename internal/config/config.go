package config

import (
	"fmt"
	"os"
	"strings"
)

// Config collects everything the service reads from the environment.
// Loaded once in main and handed down; nothing else touches os.Getenv.
type Config struct {
	MongoURI      string
	MongoDatabase string
	APIPort       string
	JWTSecret     string
	CORSOrigins   []string
}

func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: os.Getenv("MONGO_DATABASE"),
		APIPort:       os.Getenv("API_PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "medconnect"
	}
	if cfg.APIPort == "" {
		cfg.APIPort = "8080"
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		cfg.CORSOrigins = []string{"*"}
	} else {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	return cfg, nil
}
