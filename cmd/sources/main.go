package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samvad-hq/fixturekit/internal/app"
	"github.com/samvad-hq/fixturekit/internal/config"
	"github.com/samvad-hq/fixturekit/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sources failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("sources starting", "config", cfg)

	cfg.StorageType = "none"
	tk, err := app.NewToolkit(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize toolkit", "error", err)
		return fmt.Errorf("init toolkit: %w", err)
	}
	defer tk.Close()

	catalog, err := tk.Sources()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(catalog, "", "    ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
