package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/database"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/httpserver"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port   string
	DBPath string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP game server",
		Long: `Run the HTTP game server.

Loads the phrase library (PHRASES_FILE or the built-in sets), opens the
SQLite database and serves the game, daily challenge and account routes.

Example:
  hanzimatch serve --port 5175 --db ./data/app.db`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", getEnv("PORT", "5175"), "listen port")
	cmd.Flags().StringVar(&opts.DBPath, "db", getEnv("DB_PATH", "./data/app.db"), "path to SQLite database")

	return cmd
}

func runServe(opts *ServeOptions) error {
	if err := phrases.Init(); err != nil {
		return fmt.Errorf("load phrase library: %w", err)
	}
	sets, count := phrases.Stats()
	log.Info().Int("sets", sets).Int("phrases", count).Msg("phrase library loaded")

	db, err := database.Open(opts.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	srv := httpserver.New(store.NewMemoryStore(), db)
	log.Info().Str("port", opts.Port).Msg("starting go-server")
	return srv.Start(":" + opts.Port)
}
