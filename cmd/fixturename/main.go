package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/samvad-hq/fixturekit/internal/app"
	"github.com/samvad-hq/fixturekit/internal/config"
	"github.com/samvad-hq/fixturekit/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fixturename failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	check := flag.Bool("check", false, "report whether each argument is a claimed name instead of reserving one")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-check] NAME [NAME...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("at least one base name is required")
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

	logger.InfoObj("fixturename starting", "config", cfg)

	tk, err := app.NewToolkit(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize toolkit", "error", err)
		return fmt.Errorf("init toolkit: %w", err)
	}
	defer tk.Close()

	if *check {
		for _, name := range flag.Args() {
			claimed, err := tk.NameClaimed(name)
			if err != nil {
				return fmt.Errorf("check %s: %w", name, err)
			}
			fmt.Printf("%s\t%t\n", name, claimed)
		}
		return nil
	}

	for _, base := range flag.Args() {
		name, err := tk.ReserveName(base)
		if err != nil {
			return err
		}
		fmt.Println(name)
	}
	return nil
}
