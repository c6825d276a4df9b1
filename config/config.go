package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/language"
)

const (
	DefaultMetadataBaseURL = "https://api.themoviedb.org/3"
	DefaultStreamBaseURL   = "https://vixsrc.to"
	DefaultImageBaseURL    = "https://image.tmdb.org/t/p/w500"
)

// EnvAPIKey overrides the configured credential when set.
const EnvAPIKey = "TMDB_API_KEY"

// ErrMissingAPIKey is returned by Validate when no credential is configured.
// Nothing else in a run is fatal; this is checked before any network I/O.
var ErrMissingAPIKey = errors.New("TMDB API key is required")

// Settings holds the runtime configuration. Values map 1:1 onto the JSON
// config file; zero values fall back to defaults in Validate.
type Settings struct {
	TMDBAPIKey            string `json:"tmdbApiKey"`
	Language              string `json:"language"`
	MetadataBaseURL       string `json:"metadataBaseUrl"`
	StreamBaseURL         string `json:"streamBaseUrl"`
	ImageBaseURL          string `json:"imageBaseUrl"`
	OutputDir             string `json:"outputDir"`
	CacheDir              string `json:"cacheDir"`
	Concurrency           int    `json:"concurrency"`
	RequestTimeoutSeconds int    `json:"requestTimeoutSeconds"`
	ListenAddr            string `json:"listenAddr"`
	LogFile               string `json:"logFile"`
	LogMaxSizeMB          int    `json:"logMaxSizeMb"`
	LogMaxBackups         int    `json:"logMaxBackups"`
	LogMaxAgeDays         int    `json:"logMaxAgeDays"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		Language:              "it-IT",
		MetadataBaseURL:       DefaultMetadataBaseURL,
		StreamBaseURL:         DefaultStreamBaseURL,
		ImageBaseURL:          DefaultImageBaseURL,
		OutputDir:             ".",
		CacheDir:              ".",
		Concurrency:           20,
		RequestTimeoutSeconds: 10,
		ListenAddr:            ":8480",
		LogMaxSizeMB:          20,
		LogMaxBackups:         3,
		LogMaxAgeDays:         28,
	}
}

// Load reads settings from path, falling back to defaults when the file does
// not exist. The TMDB_API_KEY environment variable always wins over the file
// value. A malformed file is an error; a missing one is not.
func Load(fsys afero.Fs, path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := afero.ReadFile(fsys, path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &s); err != nil {
				return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// defaults
		default:
			return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvAPIKey); v != "" {
		s.TMDBAPIKey = v
	}
	return s, nil
}

// Validate checks the credential, canonicalizes the language tag, and fills
// zero values with defaults.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.TMDBAPIKey) == "" {
		return ErrMissingAPIKey
	}

	if s.Language != "" {
		tag, err := language.Parse(s.Language)
		if err != nil {
			return fmt.Errorf("config: invalid language %q: %w", s.Language, err)
		}
		s.Language = tag.String()
	}

	def := Default()
	if s.Language == "" {
		s.Language = def.Language
	}
	if s.MetadataBaseURL == "" {
		s.MetadataBaseURL = def.MetadataBaseURL
	}
	if s.StreamBaseURL == "" {
		s.StreamBaseURL = def.StreamBaseURL
	}
	if s.ImageBaseURL == "" {
		s.ImageBaseURL = def.ImageBaseURL
	}
	if s.OutputDir == "" {
		s.OutputDir = def.OutputDir
	}
	if s.CacheDir == "" {
		s.CacheDir = def.CacheDir
	}
	if s.Concurrency <= 0 {
		s.Concurrency = def.Concurrency
	}
	if s.RequestTimeoutSeconds <= 0 {
		s.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	if s.ListenAddr == "" {
		s.ListenAddr = def.ListenAddr
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}
