package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vixstream/services/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var listenFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the generated playlists over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// Serving existing files needs no credential, so skip validation.
			settings, err := ctx.load()
			if err != nil {
				return err
			}
			addr := listenFlag
			if addr == "" {
				addr = settings.ListenAddr
			}
			return server.New(ctx.fs, settings.OutputDir, addr).Run(runCtx)
		},
	}
	cmd.Flags().StringVar(&listenFlag, "listen", "", "Listen address (default \":8480\")")
	return cmd
}
