// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command rickdex browses characters and manages favorites from a terminal.
//
// The anonymous user identifier and the session shadow are kept in a local
// SQLite file, so favorites survive between invocations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/taibuivan/rickdex/internal/apiclient"
	"github.com/taibuivan/rickdex/internal/favstore"
	"github.com/taibuivan/rickdex/internal/identity"
	"github.com/taibuivan/rickdex/internal/platform/clock"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "rickdex:", err)
		}
		stop()
		os.Exit(1)
	}
}

// app is everything a command needs.
type app struct {
	out      io.Writer
	log      *slog.Logger
	opts     options
	settings settings

	client    *apiclient.Client
	favorites *favstore.Store
	users     *identity.Provider
	session   *identity.Session
}

// run parses args, wires the client side and dispatches one command.
func run(context context.Context, args []string, stdout, stderr io.Writer, environ map[string]string) error {
	var opts options
	flagSet := newFlagSet(&opts, stderr)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveSettings(flagSet, opts, environ)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if resolved.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	command := flagSet.Args()
	if len(command) == 0 {
		flagSet.Usage()
		return errors.New("missing command")
	}

	state, err := identity.OpenSQLite(context, resolved.State)
	if err != nil {
		return err
	}
	defer state.Close()

	client := apiclient.New(resolved.Server, nil)

	a := &app{
		out:       stdout,
		log:       log,
		opts:      opts,
		settings:  resolved,
		client:    client,
		favorites: favstore.New(client, log),
		users:     identity.NewProvider(state, clock.Real()),
		session:   identity.NewSession(state),
	}

	log.Debug("command_dispatch", slog.String("command", command[0]), slog.String("server", resolved.Server))
	return a.dispatch(context, command[0], command[1:])
}
