package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"vixstream/config"
)

func newTestContext(t *testing.T, configPath, outputDir, cacheDir string) *commandContext {
	t.Helper()
	verbose := false
	ctx := newCommandContext(&configPath, &outputDir, &cacheDir, &verbose)
	ctx.fs = afero.NewMemMapFs()
	return ctx
}

func TestLoadAppliesFlagOverrides(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "env-key")
	ctx := newTestContext(t, "", "/playlists", "/cache")

	s, err := ctx.load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.OutputDir != "/playlists" || s.CacheDir != "/cache" {
		t.Fatalf("flag overrides not applied: output=%q cache=%q", s.OutputDir, s.CacheDir)
	}
	if s.TMDBAPIKey != "env-key" {
		t.Fatalf("env credential not picked up: %q", s.TMDBAPIKey)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	ctx := newTestContext(t, "/etc/vixstream.json", "", "")
	cfg := `{"tmdbApiKey":"file-key","outputDir":"/srv/playlists"}`
	if err := afero.WriteFile(ctx.fs, "/etc/vixstream.json", []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s, err := ctx.load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.TMDBAPIKey != "file-key" {
		t.Fatalf("TMDBAPIKey = %q, want file-key", s.TMDBAPIKey)
	}
	if s.OutputDir != "/srv/playlists" {
		t.Fatalf("OutputDir = %q, want /srv/playlists", s.OutputDir)
	}
}

func TestGeneratorSettingsGuidanceWithoutCredential(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	ctx := newTestContext(t, "", "", "")

	_, err := ctx.generatorSettings()
	if err == nil {
		t.Fatal("expected an error without a credential")
	}
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
	if !strings.Contains(err.Error(), "themoviedb.org") {
		t.Fatalf("expected key guidance in error, got: %v", err)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newRootCommand()
	want := map[string]bool{"series": false, "movies": false, "all": false, "serve": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
