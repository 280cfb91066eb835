package command

// root.go defines the root command for the tome CLI and builds the shared
// client stack (config, logger, session, API client, auth gateway) the
// subcommands run against.

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MatthewBrawders/Tome/internal/api"
	"github.com/MatthewBrawders/Tome/internal/auth"
	"github.com/MatthewBrawders/Tome/internal/config"
	"github.com/MatthewBrawders/Tome/internal/logger"
	"github.com/MatthewBrawders/Tome/internal/session"
)

var (
	apiURL     string // overrides TOME_API_BASE_URL
	cookieFile string // overrides TOME_COOKIE_FILE
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tome",
	Short: "tome - Tome book review catalog client",
	Long: `tome is a client for the Tome book-review catalog API. Browse, search and
filter book reviews, read and post comments, and manage your own entries.

Use "tome [command] --help" to see the available commands.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (overrides TOME_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&cookieFile, "cookie-file", "", "session cookie file (overrides TOME_COOKIE_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// deps bundles the shared client stack for one command run.
type deps struct {
	cfg      *config.Config
	log      zerolog.Logger
	sessions *session.Store
	client   *api.Client
	gateway  *auth.Gateway
}

func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(apiURL, "/")
	}
	if cookieFile != "" {
		cfg.CookieFile = cookieFile
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(level)

	sessions := session.New(cfg.CookieFile)
	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout, sessions, log)
	return &deps{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		client:   client,
		gateway:  auth.NewGateway(client, sessions, log),
	}, nil
}
