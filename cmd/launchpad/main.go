// Copyright 2025 Poiesic Systems
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
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/launchpad"
	"github.com/poiesic/launchpad/action"
	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/engine"
)

const readyTimeout = 10 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "launchpad",
		Usage: "Rank, search and launch apps and shortcuts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List ranked items, optionally filtered by a query",
				ArgsUsage: "[query]",
				Action:    listCommand,
			},
			{
				Name:      "go",
				Usage:     "Launch the best match for a query, or search the web when nothing matches",
				ArgsUsage: "<query>",
				Action:    goCommand,
			},
			{
				Name:      "open",
				Usage:     "Launch an item",
				ArgsUsage: "<id>",
				Action:    itemCommand(action.Primary, core.KindApp, core.KindShortcut),
			},
			{
				Name:      "details",
				Usage:     "Open the details page of an app",
				ArgsUsage: "<id>",
				Action:    itemCommand(action.Secondary, core.KindApp),
			},
			{
				Name:      "delete",
				Usage:     "Remove a shortcut from the list",
				ArgsUsage: "<id>",
				Action:    itemCommand(action.Secondary, core.KindShortcut),
			},
			{
				Name:      "deprioritize",
				Usage:     "Move an app to the bottom of the list",
				ArgsUsage: "<id>",
				Action:    toggleCommand(true),
			},
			{
				Name:      "undeprioritize",
				Usage:     "Return a deprioritized app to the list",
				ArgsUsage: "<id>",
				Action:    toggleCommand(false),
			},
			{
				Name:   "counters",
				Usage:  "Show stored launch counters",
				Action: countersCommand,
			},
			{
				Name:   "search",
				Usage:  "Read queries from stdin, one per line, and print the ranked results",
				Action: searchCommand,
			},
		},
	}
}

// openLauncher loads the configuration and starts a launcher whose
// requests are printed to the command output. The configured log level
// applies unless --log-level was given.
func openLauncher(c *cli.Context) (*launchpad.Launcher, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if !c.IsSet("log-level") {
		installLogger(c.App.ErrWriter, cfg.Level())
	}

	l, err := launchpad.Open(cfg,
		launchpad.WithSink(action.NewLogSink(c.App.Writer)),
		launchpad.WithWatch(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open launcher: %w", err)
	}

	if err := l.Start(c.Context); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to start launcher: %w", err)
	}
	return l, nil
}

func waitReady(ctx context.Context, eng *engine.Engine) (*engine.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	snap, err := eng.WaitReady(ctx)
	if err != nil {
		return nil, fmt.Errorf("launcher not ready: %w", err)
	}
	return snap, nil
}

func listCommand(c *cli.Context) error {
	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	eng := l.Engine()
	eng.SetQuery(strings.Join(c.Args().Slice(), " "))
	snap, err := waitReady(c.Context, eng)
	if err != nil {
		return err
	}

	counters, err := l.Store().Counters(c.Context)
	if err != nil {
		return err
	}
	printSnapshot(c, snap, counters)
	return nil
}

func goCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	eng := l.Engine()
	eng.SetQuery(query)
	if _, err := waitReady(c.Context, eng); err != nil {
		return err
	}
	return eng.Go(c.Context)
}

// itemCommand runs kind on the item named by the first argument, which must
// be one of kinds.
func itemCommand(kind action.Kind, kinds ...core.ItemKind) cli.ActionFunc {
	return func(c *cli.Context) error {
		id := c.Args().First()
		if id == "" {
			return fmt.Errorf("item id is required")
		}

		l, err := openLauncher(c)
		if err != nil {
			return err
		}
		defer l.Close()

		item, err := findItem(c.Context, l.Engine(), id)
		if err != nil {
			return err
		}
		if !slices.Contains(kinds, item.Kind()) {
			return fmt.Errorf("%w: %s on %s %s", action.ErrActionNotOffered, c.Command.Name, item.Kind(), id)
		}
		return l.Engine().Act(c.Context, item, kind)
	}
}

// toggleCommand deprioritizes or undeprioritizes an app. Nothing happens when
// the app is already in the requested state.
func toggleCommand(deprioritize bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		id := c.Args().First()
		if id == "" {
			return fmt.Errorf("item id is required")
		}

		l, err := openLauncher(c)
		if err != nil {
			return err
		}
		defer l.Close()

		item, err := findItem(c.Context, l.Engine(), id)
		if err != nil {
			return err
		}
		if item.Kind() != core.KindApp {
			return fmt.Errorf("%w: %s on %s %s", action.ErrActionNotOffered, c.Command.Name, item.Kind(), id)
		}
		if item.IsDeprioritized() == deprioritize {
			fmt.Fprintf(c.App.Writer, "%s already %sd\n", id, c.Command.Name)
			return nil
		}
		return l.Engine().Tertiary(c.Context, item)
	}
}

func findItem(ctx context.Context, eng *engine.Engine, id string) (core.LaunchItem, error) {
	eng.ResetQuery()
	snap, err := waitReady(ctx, eng)
	if err != nil {
		return nil, err
	}
	for _, item := range snap.Items {
		if item.ID() == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("no item with id %q", id)
}

func countersCommand(c *cli.Context) error {
	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	counters, err := l.Store().Counters(c.Context)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(counters))
	for id := range counters {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if counters.IsDeprioritized(id) {
			fmt.Fprintf(c.App.Writer, "%-48s deprioritized\n", id)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%-48s %d\n", id, counters[id])
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	eng := l.Engine()
	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		eng.SetQuery(scanner.Text())
		snap, err := waitReady(c.Context, eng)
		if err != nil {
			return err
		}
		counters, err := l.Store().Counters(c.Context)
		if err != nil {
			return err
		}
		printSnapshot(c, snap, counters)
		fmt.Fprintln(c.App.Writer)
	}
	return scanner.Err()
}

func printSnapshot(c *cli.Context, snap *engine.Snapshot, counters core.Counters) {
	w := c.App.Writer
	for _, item := range snap.Items {
		marker := " "
		if item.IsDeprioritized() {
			marker = "-"
		}
		fmt.Fprintf(w, "%s %4d  %-8s  %-24s  %s\n",
			marker, max(counters.Get(item.ID()), 0), item.Kind(), item.DisplayName(), item.ID())
	}
	if strings.TrimSpace(snap.Query) != "" && snap.OfferWebSearch() {
		fmt.Fprintf(w, "no matches for %q, `launchpad go` will search the web\n", strings.TrimSpace(snap.Query))
	}
}

func setupLogger(c *cli.Context) error {
	level, err := config.ParseLogLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	installLogger(c.App.ErrWriter, level)
	return nil
}

func installLogger(w io.Writer, level slog.Level) {
	if w == nil {
		w = os.Stderr
	}
	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
