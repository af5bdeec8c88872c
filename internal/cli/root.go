// Package cli holds the hanzimatch command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the HTTP server.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	serve := NewServeCommand(opts)

	cmd := &cobra.Command{
		Use:   "hanzimatch",
		Short: "hanzimatch - Chinese phrase matching game",
		Long: `Shuffle the characters of a phrase set into tiles and rebuild the
phrases on an answer line. Serves the game over HTTP, plays it in the
terminal, or downloads pronunciation audio for a set.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if lvl, err := zerolog.ParseLevel(opts.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}
			return nil
		},
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "zerolog level (debug|info|warn|error)")

	cmd.AddCommand(serve)
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewAudioCommand(opts))

	return cmd
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
