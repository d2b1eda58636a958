package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	backendimpl "github.com/gangstaai/scanclient/external/backend"
	configloader "github.com/gangstaai/scanclient/external/config"
	discordimpl "github.com/gangstaai/scanclient/external/discord"
	repositoryimpl "github.com/gangstaai/scanclient/external/repository"
	transcriberimpl "github.com/gangstaai/scanclient/external/transcriber"
	webhookimpl "github.com/gangstaai/scanclient/external/webhook"
	"github.com/gangstaai/scanclient/internal/analysis"
	"github.com/gangstaai/scanclient/internal/config"
	"github.com/gangstaai/scanclient/internal/scan"
	"github.com/gangstaai/scanclient/internal/song"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

type app struct {
	verbose  bool
	quiet    bool
	asJSON   bool
	cfg      *config.Config
	injector do.Injector
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "scanclient",
		Short: "Speaker scan and truth scanner client",
		Long: `scanclient uploads audio to the speaker-scan backend and follows the live
transcript as it streams back. It also drives the post and text truth scanner,
the news-to-song generator and the scan history endpoints, and reads the news
feed and song history from the backend database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		newScanCmd(a),
		newTruthCmd(a),
		newSongCmd(a),
		newHistoryCmd(a),
		newNewsCmd(a),
	)
	return root
}

func (a *app) setup(logOut io.Writer) error {
	cfg, err := configloader.Load()
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	a.cfg = cfg
	a.initLogger(logOut)
	slog.Debug("configuration loaded", "env", cfg.Env, "api_base_url", cfg.APIBaseURL)
	a.injector = setupDI(cfg)
	return nil
}

// initLogger writes JSON to stderr so stdout stays reserved for results.
func (a *app) initLogger(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logLevel := slog.LevelInfo
	if a.cfg.IsDevelopment() || a.verbose {
		logLevel = slog.LevelDebug
	}
	if a.quiet {
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	discordimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	backendimpl.RegisterDI(injector)
	scan.RegisterDI(injector)
	analysis.RegisterDI(injector)
	song.RegisterDI(injector)

	return injector
}
