package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/faiface/mainthread"
	"github.com/memmaker/marchingterrain/engine/config"
	"github.com/memmaker/marchingterrain/engine/util"
)

func main() {
	configPath := flag.String("config", "", "YAML config file, defaults are used when empty")
	flag.Parse()
	mainthread.Run(func() {
		if err := run(*configPath); err != nil {
			util.LogSystemError(err.Error())
			os.Exit(1)
		}
	})
}

func run(configPath string) error {
	cfg := config.Defaults()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	util.LogSystemInfo(fmt.Sprintf("[App] seed %d, render distance %d, %d Hz", cfg.Noise.Seed, cfg.Streaming.RenderDistance, cfg.Tick.RateHz))
	runErr := app.Run(ctx)
	if err := app.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
