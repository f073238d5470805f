package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"tcppub/internal/app"
	"tcppub/internal/shared/config"
	"tcppub/internal/shared/logger"
)

func main() {
	var args cliArgs
	arg.MustParse(&args)

	cfg := config.Default()
	if args.Config != "" {
		if err := config.LoadIni(cfg, args.Config); err != nil {
			// Use standard fmt before logger is initialized.
			fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", args.Config, err)
			os.Exit(1)
		}
	}
	args.apply(cfg)

	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	application, err := app.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("tcppub terminated")
	}
}
