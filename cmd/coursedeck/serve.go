package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/coursedeck/internal/adapters/primary/http"
	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/browser"
	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/cache"
	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/catalog"
	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/parser"
	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
	"github.com/fredcamaral/coursedeck/internal/domain/services"
)

const cacheCleanupInterval = 10 * time.Minute

// serveFlags lists the flags forwarded to the config merger
var serveFlags = []string{"port", "host", "no-browser", "no-splits", "no-watch", "watch-mode", "log-level", "verbose"}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [content-dir]",
		Short: "Serve a content directory of training modules",
		Long: `Start a local HTTP server presenting every collection of the content
directory. Pages reload when the content changes.

Example:
  coursedeck serve ./formations
  coursedeck serve ./formations --port 8080 --no-browser`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "Port to serve on (overrides config)")
	cmd.Flags().String("host", "", "Host to bind to (overrides config)")
	cmd.Flags().Bool("no-browser", false, "Don't open the browser automatically")
	cmd.Flags().Bool("no-splits", false, "Treat --- runs as content instead of forced splits")
	cmd.Flags().Bool("no-watch", false, "Don't reload when content changes")
	cmd.Flags().String("watch-mode", "", "Watcher backend: notify or poll")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn or error")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadServeConfig(ctx, cmd, args)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	return app.run(ctx, cmd.OutOrStdout())
}

// loadServeConfig resolves the layered config for the content directory
func loadServeConfig(ctx context.Context, cmd *cobra.Command, args []string) (*entities.Config, error) {
	contentDir := "."
	if len(args) == 1 {
		contentDir = args[0]
	}

	svc := services.NewConfigService(config.NewTOMLLoader(), config.NewConfigMerger())
	cfg, err := svc.LoadConfig(ctx, contentDir, collectFlags(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// an explicit argument wins over content.root from files or env
	if len(args) == 1 {
		abs, err := filepath.Abs(contentDir)
		if err != nil {
			return nil, fmt.Errorf("resolving content directory: %w", err)
		}
		cfg.Content.Root = abs
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	if err := validateServeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// collectFlags returns the flags set on the command line, keyed by name
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})

	for _, name := range serveFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}

		switch f.Value.Type() {
		case "int":
			if v, err := strconv.Atoi(f.Value.String()); err == nil {
				flags[name] = v
			}
		case "bool":
			if v, err := strconv.ParseBool(f.Value.String()); err == nil {
				flags[name] = v
			}
		default:
			flags[name] = f.Value.String()
		}
	}

	return flags
}

// validateServeConfig checks what serve needs beyond Config.Validate
func validateServeConfig(cfg *entities.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", cfg.Server.Port)
	}

	if strings.ContainsAny(cfg.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", cfg.Server.Host)
	}

	return nil
}

// serverURL is the address shown to the user and opened in the browser
func serverURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// app is the wired serve command
type app struct {
	cfg       *entities.Config
	logger    *slog.Logger
	catalog   *catalog.FilesystemCatalog
	htmlCache *cache.HTMLCache
	sessions  *services.NavigationSessionManager
	server    *httpadapter.Server
	reload    *services.LiveReloadService
	browser   ports.BrowserLauncher
}

func newApp(ctx context.Context, cfg *entities.Config, logger *slog.Logger) (*app, error) {
	cat, err := catalog.NewFilesystemCatalog(ctx, cfg.Content.Root, logger)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	htmlCache := cache.NewHTMLCache(cache.DefaultMaxBytes)
	markdown := cache.NewCachedRenderer(parser.NewGoldmarkRenderer(), htmlCache, cache.DefaultTTL)

	decks := services.NewDeckService(
		cat,
		parser.NewSectionParser(),
		parser.NewClassifier(),
		markdown,
		cfg.Content.EnableSplits,
		logger,
	)

	sessions := services.NewNavigationSessionManager(
		decks,
		ports.NewRealClock(),
		services.NavigatorOptionsFromConfig(cfg.Navigation),
		logger,
	)

	pages, err := renderer.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	server := httpadapter.NewServer(httpadapter.Options{
		Catalog:      cat,
		Decks:        decks,
		Sessions:     sessions,
		Renderer:     pages,
		EnableSplits: cfg.Content.EnableSplits,
		Logging:      &cfg.Logging,
		Monitor:      monitoring.NewMonitor(monitoring.DefaultSampleInterval),
		RenderCache:  markdown,
	}, &cfg.Server)

	return &app{
		cfg:       cfg,
		logger:    logger,
		catalog:   cat,
		htmlCache: htmlCache,
		sessions:  sessions,
		server:    server,
		reload:    services.NewLiveReloadService(newWatcher(cfg.Watcher, logger), server, cat, logger),
		browser:   browser.NewLauncher(cfg.Browser.Browser),
	}, nil
}

// newWatcher picks the watcher backend from config
func newWatcher(cfg entities.WatcherConfig, logger *slog.Logger) ports.FileWatcher {
	if cfg.GetMode() == "poll" {
		return watcher.NewPollingWatcher(cfg.GetInterval(), cfg.GetDebounce(), logger)
	}
	return watcher.NewNotifyWatcher(cfg.GetDebounce(), logger)
}

// run serves until ctx is done
func (a *app) run(ctx context.Context, out io.Writer) error {
	if err := a.server.Start(ctx, a.cfg.Server.Port, a.cfg.Server.Host); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	a.htmlCache.StartCleanup(ctx, cacheCleanupInterval)

	url := serverURL(a.cfg.Server.Host, a.cfg.Server.Port)
	collections, _ := a.catalog.Collections(ctx)

	green := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)
	green.Fprintf(out, "coursedeck running at %s\n", url)
	faint.Fprintf(out, "  content: %s (%d collections)\n", a.cfg.Content.Root, len(collections))

	if a.cfg.Content.Watch {
		if err := a.reload.Start(ctx, a.cfg.Content.Root); err != nil {
			a.logger.Warn("Live reload disabled", slog.String("error", err.Error()))
		} else {
			faint.Fprintf(out, "  watching for changes (%s)\n", a.cfg.Watcher.GetMode())
		}
	}

	if a.cfg.Browser.AutoOpen {
		if err := a.browser.Launch(url, false); err != nil {
			a.logger.Warn("Failed to open browser", slog.String("error", err.Error()))
		}
	}

	<-ctx.Done()
	return a.shutdown()
}

func (a *app) shutdown() error {
	if a.reload.IsWatching() {
		if err := a.reload.Stop(); err != nil {
			a.logger.Warn("Stopping live reload", slog.String("error", err.Error()))
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.GetShutdownTimeout())
	defer cancel()

	err := a.server.Stop(stopCtx)

	// sockets are gone; cancel whatever hide timers are still pending
	a.sessions.CloseAll()

	if err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
