package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/coursedeck/internal/domain/services"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage coursedeck configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the global configuration file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewTOMLLoader()
			svc := services.NewConfigService(loader, config.NewConfigMerger())

			if err := svc.CreateGlobalConfig(cmd.Context()); err != nil {
				return fmt.Errorf("creating global config: %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Created %s\n", loader.GetGlobalPath())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [content-dir]",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentDir := "."
			if len(args) == 1 {
				contentDir = args[0]
			}

			svc := services.NewConfigService(config.NewTOMLLoader(), config.NewConfigMerger())
			cfg, err := svc.LoadConfig(cmd.Context(), contentDir, nil)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			enc := toml.NewEncoder(cmd.OutOrStdout())
			enc.Indent = "  "
			return enc.Encode(cfg)
		},
	})

	return cmd
}
