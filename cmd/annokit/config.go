package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/annokit/internal/config"
	"github.com/ivlev/annokit/internal/registry"
	"github.com/ivlev/annokit/internal/system"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *ctx.cfg
			if len(cfg.Containers) == 0 {
				cfg.Containers = make([]config.Container, 0, len(registry.DefaultRegistrations))
				for _, reg := range registry.DefaultRegistrations {
					cfg.Containers = append(cfg.Containers, config.Container{Pattern: reg.Pattern, Format: reg.Format})
				}
			}
			if cfg.Workers == 0 {
				cfg.Workers = system.DefaultWorkers()
			}

			data, err := cfg.Marshal()
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
