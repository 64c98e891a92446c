package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/catalog"
	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [content-dir]",
		Short: "List the collections and modules of a content directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			abs, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("resolving content directory: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			cat, err := catalog.NewFilesystemCatalog(cmd.Context(), abs, logger)
			if err != nil {
				return fmt.Errorf("loading content: %w", err)
			}

			collections, err := cat.Collections(cmd.Context())
			if err != nil {
				return err
			}

			printCatalog(cmd.OutOrStdout(), collections)
			return nil
		},
	}
}

// printCatalog writes one block per collection, modules in presentation order
func printCatalog(w io.Writer, collections []entities.Collection) {
	if len(collections) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No collections found")
		return
	}

	name := color.New(color.FgCyan, color.Bold)
	faint := color.New(color.Faint)
	warn := color.New(color.FgYellow)

	for i, c := range collections {
		if i > 0 {
			fmt.Fprintln(w)
		}

		name.Fprintf(w, "%s", c.Name)
		faint.Fprintf(w, "  %s · %s · %s\n", c.ID, c.Level, c.Duration)

		for _, m := range c.Modules {
			fmt.Fprintf(w, "  %-24s %s", m.Filename, m.Title)
			faint.Fprintf(w, " (%s)", m.DurationEstimate)
			if _, linked := m.Link.URL(); !linked {
				warn.Fprint(w, " [no title]")
			}
			fmt.Fprintln(w)
		}
	}
}
