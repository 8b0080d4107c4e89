package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"vpet/internal/backup"
	"vpet/internal/config"
	"vpet/internal/game"
	"vpet/internal/logger"
	"vpet/internal/notify"
	"vpet/internal/relay"
	"vpet/internal/store"
	"vpet/internal/ui"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "vpet: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	stats      bool
	reset      bool
	exportPath string
	importPath string
	name       string
	online     bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("vpet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to a config.yaml (default: ./config.yaml or ~/.config/vpet/config.yaml)")
	fs.BoolVar(&opts.stats, "stats", false, "Show the stats card and exit")
	fs.BoolVar(&opts.reset, "reset", false, "Replace the pet with a new egg")
	fs.StringVar(&opts.exportPath, "export", "", "Write a YAML backup to this file and exit")
	fs.StringVar(&opts.importPath, "import", "", "Restore a YAML backup from this file and exit")
	fs.StringVar(&opts.name, "name", "", "Rename the pet")
	fs.BoolVar(&opts.online, "online", false, "Connect to the battle relay for online battles")
	err := fs.Parse(args)
	return opts, err
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer s.Close()

	switch {
	case opts.exportPath != "":
		return exportBackup(ctx, s, opts.exportPath, stdout)
	case opts.importPath != "":
		return importBackup(ctx, s, opts.importPath, stdout)
	}

	inbox := &ui.Inbox{}
	var sink notify.Sink = inbox
	headless := opts.reset || opts.name != "" || opts.stats
	if headless {
		sink = notify.NewLogSink(log)
	}
	g := game.New(*cfg, s, sink, log)
	away, err := g.Load(ctx)
	if err != nil {
		return err
	}

	if opts.reset || opts.name != "" {
		return applyChanges(ctx, g, opts, stdout)
	}
	if opts.stats {
		return ui.DisplayStats(ui.NewStatsModel(g))
	}

	var feed game.OpponentFeed
	if opts.online {
		client, err := relay.Dial(ctx, cfg.Relay, log)
		if err != nil {
			log.Warn("relay unavailable, online battles disabled", zap.Error(err))
			fmt.Fprintf(stdout, "Battle relay unavailable: %v\n", err)
		} else {
			defer client.Close()
			feed = client
		}
	}

	log.Info("starting", zap.String("pet", g.Pet().Name), zap.Bool("online", feed != nil))
	program := tea.NewProgram(ui.NewModel(ctx, g, inbox, ui.Options{Feed: feed, Away: away}), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	g.EndBattle(ctx)
	return g.Save(ctx)
}

func applyChanges(ctx context.Context, g *game.Game, opts options, stdout io.Writer) error {
	if opts.reset {
		g.Reset(ctx)
		fmt.Fprintln(stdout, "🥚 A new egg appeared!")
	}
	if opts.name != "" {
		result := g.Rename(ctx, opts.name)
		if !result.Valid {
			return fmt.Errorf("invalid name: %s", result.Error)
		}
		fmt.Fprintf(stdout, "Your pet is now called %s\n", result.Sanitized)
	}
	return g.Save(ctx)
}

func exportBackup(ctx context.Context, s store.Store, path string, stdout io.Writer) error {
	data, err := backup.Export(ctx, s, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Backup written to %s\n", path)
	return nil
}

func importBackup(ctx context.Context, s store.Store, path string, stdout io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := backup.Import(ctx, s, data, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Restored backup from %s\n", doc.Timestamp.Format(time.RFC1123))
	return nil
}
