package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sanjitmathur/ExamForge/internal/cli"
	"github.com/sanjitmathur/ExamForge/internal/config"
	"github.com/sanjitmathur/ExamForge/internal/logx"
)

func main() {
	cfgPath := os.Getenv("EXAMFORGE_CONFIG")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logx.Init(cfg.LogLevel)

	app, err := cli.New(cfg, cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
