package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Generate the series playlist (serie.m3u)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, true, false)
		},
	}
}

func newMoviesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "movies",
		Short: "Generate the movie playlist (film.m3u)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, false, true)
		},
	}
}

func newAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Generate both playlists, series first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, true, true)
		},
	}
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, series, movies bool) error {
	runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	settings, err := ctx.generatorSettings()
	if err != nil {
		return err
	}
	svc := ctx.buildPipeline(settings)

	// A failed series run does not stop the movie run; whatever playlist can
	// be assembled still gets written.
	var errs []error
	if series {
		if err := svc.BuildSeries(runCtx); err != nil {
			errs = append(errs, fmt.Errorf("series: %w", err))
		}
	}
	if movies {
		if err := svc.BuildMovies(runCtx); err != nil {
			errs = append(errs, fmt.Errorf("movies: %w", err))
		}
	}
	return errors.Join(errs...)
}
