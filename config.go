package main

import (
	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/kpango/glg"
)

// EnvConfig is the environment configuration for one run of the CLI.
type EnvConfig struct {
	BungieAPIKey      string `env:"BUNGIE_API_KEY"`
	AccessToken       string `env:"BUNGIE_ACCESS_TOKEN"`
	OAuthClientID     string `env:"BUNGIE_OAUTH_CLIENT_ID"`
	OAuthClientSecret string `env:"BUNGIE_OAUTH_CLIENT_SECRET"`
	RefreshToken      string `env:"BUNGIE_REFRESH_TOKEN"`

	// ManifestDSN points at the bulk manifest snapshot: a local sqlite file
	// for personal use or a hosted postgres table. Empty disables the bulk
	// path entirely and every definition resolves through the remote fallback.
	ManifestDriver string `env:"MANIFEST_DRIVER" envDefault:"sqlite"`
	ManifestDSN    string `env:"MANIFEST_DSN"`

	RedisURL string `env:"REDIS_URL"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL"`

	SentryDSN   string `env:"SENTRY_DSN"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFilePath string `env:"LOG_FILE_PATH"`

	OutputPath string `env:"OUTPUT_PATH" envDefault:"gear_report"`
}

// loadConfig reads an optional .env style file and then parses the environment
// into an EnvConfig.
func loadConfig(path *string) *EnvConfig {

	if path != nil && *path != "" {
		if err := godotenv.Load(*path); err != nil {
			glg.Warnf("Failed to load config file %s: %s", *path, err.Error())
		}
	} else {
		// A missing default .env file is fine, the environment may already
		// be populated.
		_ = godotenv.Load()
	}

	config := &EnvConfig{}
	if err := env.Parse(config); err != nil {
		glg.Errorf("Failed to parse environment config: %s", err.Error())
	}

	return config
}
