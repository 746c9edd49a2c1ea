package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"translatable/internal/bootstrap"
	"translatable/internal/config"
	"translatable/internal/infrastructure/i18n"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	t := i18n.NewTranslator(cfg.MessageLocale)
	if len(os.Args) < 2 || os.Args[1] != "migrate" {
		fmt.Fprintln(os.Stderr, t.Message(cfg.MessageLocale, "usage", nil))
		os.Exit(2)
	}

	if err := migrate(context.Background(), cfg, t); err != nil {
		slog.Error(i18n.ErrorMessage(t, cfg.MessageLocale, err))
		os.Exit(1)
	}
}

// migrate installs the translation schema on the configured backend.
func migrate(ctx context.Context, cfg *config.Config, t *i18n.Translator) error {
	slog.Info(t.Message(cfg.MessageLocale, "migrate.start", map[string]any{"Driver": cfg.StoreDriver}))

	backend, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	if cfg.StoreDriver == config.DriverMemory {
		slog.Info(t.Message(cfg.MessageLocale, "migrate.memory", nil))
		return nil
	}

	slog.Info(t.Message(cfg.MessageLocale, "migrate.done", map[string]any{
		"Driver":  backend.Driver,
		"Version": backend.Version,
	}))
	return nil
}
