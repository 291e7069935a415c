// Copyright 2025 Proteoform Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/proteoform/thyme"
	"github.com/proteoform/thyme/index"
)

func main() {
	app := &cli.App{
		Name:   "thyme",
		Usage:  "Real-time open-search engine for tandem mass spectrometry",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Build the fragment index and serve search requests over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to engine parameter file (JSON)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to spectrum store directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
				},
			},
			{
				Name:      "load",
				Usage:     "Load MGF peak-list files into the spectrum store",
				ArgsUsage: "FILE [FILE...]",
				Action:    loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to engine parameter file (JSON)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to spectrum store directory",
						Required: true,
					},
				},
			},
			{
				Name:   "digest",
				Usage:  "Build the fragment index and report its statistics",
				Action: digestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to engine parameter file (JSON)",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	engine, err := thyme.NewEngine(c.String("config"), c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	srv, err := engine.NewServer()
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	addr := c.String("addr")
	slog.Info("listening", "addr", addr, "peptides", engine.Index().Len())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return httpServer.ListenAndServe()
}

func loadCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one MGF file is required")
	}

	engine, err := thyme.NewEngine(c.String("config"), c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	total := 0
	for _, path := range c.Args().Slice() {
		n, err := engine.LoadMGF(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		total += n
	}

	fmt.Fprintf(os.Stderr, "Loaded %d spectra from %d files\n", total, c.NArg())
	return nil
}

func digestCommand(c *cli.Context) error {
	builder, err := index.FromFile(c.String("config"))
	if err != nil {
		return err
	}
	params, err := builder.MakeParameters()
	if err != nil {
		return err
	}

	start := time.Now()
	ix, err := params.Build()
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	targets, decoys := 0, 0
	for i := 0; i < ix.Len(); i++ {
		if ix.Peptide(i).Decoy {
			decoys++
		} else {
			targets++
		}
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", params.Fasta)
	fmt.Fprintf(os.Stderr, "Peptide variants: %d (%d targets, %d decoys)\n", ix.Len(), targets, decoys)
	fmt.Fprintf(os.Stderr, "Buckets: %d (size %d)\n", ix.Buckets(), params.BucketSize)
	fmt.Fprintf(os.Stderr, "Build time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
