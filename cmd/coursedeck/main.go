package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

var (
	// Version is set during build
	Version = "dev"

	// BuildDate is set during build
	BuildDate = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "coursedeck",
	Short: "Serve markdown training modules as slide decks",
	Long: `coursedeck turns a directory of markdown training modules into
navigable slide decks and printable support documents. Each folder of
the content directory is a collection; each markdown file is a module.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// newLogger builds the slog logger described by the logging config. Logs go
// to the configured file when set, to stderr otherwise. The returned close
// function releases the file.
func newLogger(cfg entities.LoggingConfig, stderr io.Writer) (*slog.Logger, func() error, error) {
	out := stderr
	closeFn := func() error { return nil }

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), closeFn, nil
}
