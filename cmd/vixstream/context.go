package main

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"vixstream/config"
	"vixstream/internal/logging"
	"vixstream/models"
	"vixstream/services/availability"
	"vixstream/services/metadata"
	"vixstream/services/playlist"
	"vixstream/services/resolver"
)

const defaultConfigPath = "vixstream.json"

// commandContext carries the persistent flag values and the lazily loaded
// configuration shared by all subcommands.
type commandContext struct {
	configFlag    *string
	outputDirFlag *string
	cacheDirFlag  *string
	verboseFlag   *bool

	fs afero.Fs

	loadOnce sync.Once
	settings config.Settings
	loadErr  error
}

func newCommandContext(configFlag, outputDirFlag, cacheDirFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		outputDirFlag: outputDirFlag,
		cacheDirFlag:  cacheDirFlag,
		verboseFlag:   verboseFlag,
		fs:            afero.NewOsFs(),
	}
}

// load reads the configuration, applies flag overrides, and installs the
// process logger. It runs once no matter how many commands share the context.
func (c *commandContext) load() (config.Settings, error) {
	c.loadOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			path = defaultConfigPath
		}

		s, err := config.Load(c.fs, path)
		if err != nil {
			c.loadErr = err
			return
		}
		if v := strings.TrimSpace(*c.outputDirFlag); v != "" {
			s.OutputDir = v
		}
		if v := strings.TrimSpace(*c.cacheDirFlag); v != "" {
			s.CacheDir = v
		}

		logging.Setup(logging.Options{
			Verbose:    *c.verboseFlag,
			File:       s.LogFile,
			MaxSizeMB:  s.LogMaxSizeMB,
			MaxBackups: s.LogMaxBackups,
			MaxAgeDays: s.LogMaxAgeDays,
		})
		c.settings = s
	})
	return c.settings, c.loadErr
}

// generatorSettings validates the loaded settings for a generator run. The
// missing credential is the one fatal configuration error; it carries
// guidance on where to obtain a key.
func (c *commandContext) generatorSettings() (config.Settings, error) {
	s, err := c.load()
	if err != nil {
		return config.Settings{}, err
	}
	if err := s.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			return config.Settings{}, fmt.Errorf("%w\ncreate a free API key at https://www.themoviedb.org/settings/api, then set the %s environment variable or the \"tmdbApiKey\" config field",
				err, config.EnvAPIKey)
		}
		return config.Settings{}, err
	}
	return s, nil
}

// buildPipeline wires the playlist service from validated settings. Caches
// are loaded eagerly so the first reconcile pass sees them.
func (c *commandContext) buildPipeline(s config.Settings) *playlist.Service {
	seriesStore := metadata.NewStore[models.SeriesRecord](c.fs, filepath.Join(s.CacheDir, "serie_cache.json"), nil)
	movieStore := metadata.NewStore[models.MovieRecord](c.fs, filepath.Join(s.CacheDir, "film_cache.json"), nil)
	seriesStore.Load()
	movieStore.Load()

	client := metadata.NewTMDBClient(s.TMDBAPIKey,
		metadata.WithBaseURL(s.MetadataBaseURL),
		metadata.WithLanguage(s.Language),
		metadata.WithHTTPClient(&http.Client{Timeout: s.RequestTimeout()}),
	)
	meta := metadata.NewService(client, seriesStore, movieStore, s.Concurrency, s.TMDBAPIKey)
	av := availability.NewClient(s.StreamBaseURL, s.RequestTimeout(), nil)
	engine := playlist.NewEngine(resolver.NewResolver(s.StreamBaseURL, s.RequestTimeout(), nil), s.Concurrency)

	return playlist.NewService(av, meta, engine, c.fs, s.OutputDir, s.ImageBaseURL)
}
