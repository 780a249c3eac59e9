package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/fixturekit/internal/app"
	"github.com/samvad-hq/fixturekit/internal/config"
	"github.com/samvad-hq/fixturekit/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "apiget failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	resource := flag.String("resource", "Task", "resource name appended to api_host + api_path_prefix")
	id := flag.String("id", "", "resource id")
	field := flag.String("field", "data", "top-level payload field to print; empty prints the whole payload")
	flag.Parse()

	if *id == "" {
		return errors.New("-id is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("apiget starting", "config", cfg)

	cfg.StorageType = "none"
	tk, err := app.NewToolkit(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize toolkit", "error", err)
		return fmt.Errorf("init toolkit: %w", err)
	}
	defer tk.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := tk.Client(*resource).Get(ctx, *id)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("request failed: %s", res.Failure)
	}

	value := res.Payload
	if *field != "" {
		v, ok := res.Field(*field)
		if !ok {
			return fmt.Errorf("payload has no field %q", *field)
		}
		value = v
	}

	out, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
