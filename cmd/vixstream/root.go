package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag    string
		outputDirFlag string
		cacheDirFlag  string
		verboseFlag   bool
	)

	ctx := newCommandContext(&configFlag, &outputDirFlag, &cacheDirFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "vixstream",
		Short:         "Generate M3U playlists from the VixSrc catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&outputDirFlag, "output-dir", "", "Directory for generated playlists")
	rootCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "", "Directory for metadata caches")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newSeriesCommand(ctx))
	rootCmd.AddCommand(newMoviesCommand(ctx))
	rootCmd.AddCommand(newAllCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
