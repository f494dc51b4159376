package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/skyscan/internal/config"
	"github.com/user/skyscan/internal/lists"
	"github.com/user/skyscan/internal/lookup"
	"github.com/user/skyscan/internal/notify"
	"github.com/user/skyscan/internal/scan"
	"github.com/user/skyscan/internal/session"
	"github.com/user/skyscan/internal/skylight"
	"github.com/user/skyscan/internal/state"
	"github.com/user/skyscan/internal/types"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "skyscan",
	Short:        "Scan barcodes onto your Skylight lists",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath,
		"config",
		filepath.Join(os.Getenv("HOME"), ".skyscan", "config.json"),
		"config file path")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// app bundles the wired components behind each command.
type app struct {
	cfg       *config.Config
	kv        *state.KV
	sessions  *session.Manager
	lists     *lists.Service
	overrides *state.OverrideStore
	history   *state.HistoryStore
	flow      *scan.Flow
}

func newApp(ctx context.Context) (*app, error) {
	cfg := loadConfig()
	setupLogging(cfg)

	kv, err := state.OpenKV(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	client := skylight.New(cfg.Skylight.BaseURL)
	sessions := session.NewManager(client, state.NewSessionStore(kv))
	listService := lists.NewService(sessions, client, state.NewSelectionStore(kv))
	overrides := state.NewOverrideStore(kv)
	history := state.NewHistoryStore(kv)

	var notifier types.Notifier
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			slog.Warn("telegram notifier disabled", "error", err)
		} else {
			notifier = tg
		}
	}

	flow := scan.NewFlow(
		lookup.New(cfg.Lookup.BaseURL, cfg.Lookup.UserAgent),
		overrides, history, listService, notifier,
	)

	return &app{
		cfg:       cfg,
		kv:        kv,
		sessions:  sessions,
		lists:     listService,
		overrides: overrides,
		history:   history,
		flow:      flow,
	}, nil
}

func (a *app) Close() {
	a.kv.Close()
}

// restore loads a persisted session and primes the list cache and
// selection. A missing session is not an error; commands that need one
// check afterwards.
func (a *app) restore(ctx context.Context) error {
	sess, err := a.sessions.Restore(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	if err := a.lists.Refresh(ctx); err != nil {
		return err
	}
	return a.lists.RestoreSelection(ctx)
}

func (a *app) requireSession() error {
	if _, ok := a.sessions.Current(); !ok {
		return fmt.Errorf("not logged in (run \"skyscan login\" first)")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
