// Package main is the entry point for the mdkeep server.
//
// mdkeep is a single-user markdown note-keeping backend: documents organized
// into folders, tags and categories, with a recently-opened log and
// HTML/text export. Persistence is flat JSON files or SQLite, selected in
// the configuration. Configuration is read from an optional YAML file; CLI
// flags override it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/mdkeep/mdkeep/internal/config"
	"github.com/mdkeep/mdkeep/internal/server"
	"github.com/mdkeep/mdkeep/internal/storage"
	"github.com/mdkeep/mdkeep/internal/storage/jsonstore"
	"github.com/mdkeep/mdkeep/internal/storage/sqlstore"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "mdkeep: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "mdkeep.yml", "Path to YAML config file")
	httpAddr := flag.String("http", "", "Address to listen on (e.g., localhost:5000, :5000)")
	dataDir := flag.String("data-dir", "", "Data directory")
	exportsDir := flag.String("exports-dir", "", "Directory for exported files")
	store := flag.String("store", "", "Persistence backend (json or sqlite)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *httpAddr != "" {
		cfg.Addr = *httpAddr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *exportsDir != "" {
		cfg.ExportsDir = *exportsDir
	}
	if *store != "" {
		cfg.Store = *store
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	ll := &slog.LevelVar{}
	switch cfg.LogLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
		ll.Set(slog.LevelInfo)
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	}
	// Skip timestamps when running under systemd (it adds its own).
	underSystemd := os.Getenv("JOURNAL_STREAM") != ""
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if underSystemd && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var st storage.Store
	switch cfg.Store {
	case config.StoreSQLite:
		st, err = sqlstore.New(filepath.Join(cfg.DataDir, "mdkeep.db"))
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
	default:
		js, err := jsonstore.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open json store: %w", err)
		}
		if err := watchDataDir(ctx, cfg.DataDir, js); err != nil {
			return err
		}
		st = js
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close store", "err", err)
		}
	}()

	buildVersion, _, _, _ := getBuildInfo()
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(st, cfg.ExportsDir, buildVersion, cfg.RecentLimit),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Starting server", "addr", cfg.Addr, "store", cfg.Store, "version", buildVersion)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.InfoContext(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		slog.InfoContext(ctx, "Server stopped")
	}
	return nil
}

// watchDataDir reloads the JSON tables when the collection files change on
// disk, so edits made by another process (or by hand) become visible without
// a restart.
func watchDataDir(ctx context.Context, dataDir string, st *jsonstore.Store) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dataDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch data directory: %w", err)
	}
	go func() {
		defer func() {
			_ = watcher.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				// Our own atomic writes land as .tmp renames; skip those.
				if !strings.HasSuffix(ev.Name, ".json") {
					continue
				}
				slog.Debug("Reloading tables", "file", ev.Name)
				st.Reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Watcher error", "err", err)
			}
		}
	}()
	return nil
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("mdkeep %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return
}
