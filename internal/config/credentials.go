package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Credentials are the catalog API client credentials.
type Credentials struct {
	ClientID     string `envconfig:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET"`
}

// Complete reports whether both values are set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// LoadCredentials reads credentials from the environment after loading the
// given .env files (".env" when none are given). Missing .env files are
// ignored; variables already set in the environment win.
func LoadCredentials(envFiles ...string) (Credentials, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, err
		}
	}

	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return Credentials{}, err
	}
	return c, nil
}
