//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"retrocalc/app"
	"retrocalc/calc/task"
	"retrocalc/hal"
	"retrocalc/internal/config"
	"retrocalc/internal/logging"

	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	newApp := func(h hal.HAL) func() error {
		log := logging.New(h.Logger(), cfg.Verbosity)
		if cfg.File != "" {
			log.Info("config loaded", "file", cfg.File)
		}
		return app.New(h, app.Config{
			Task: task.Config{
				Locale:              cfg.Locale,
				NoticeDuration:      cfg.NoticeDuration,
				CancelNoticeOnInput: cfg.CancelNoticeOnInput,
				PressDuration:       cfg.PressDuration,
			},
			Script:          cfg.Script,
			ExitAfterScript: cfg.ExitAfterScript,
		}, log)
	}

	if cfg.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Enabled: true,
			Hz:      cfg.Hz,
			Ticks:   cfg.Ticks,
		}); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, hal.WindowConfig{Scale: cfg.Scale, TPS: cfg.TPS}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
