package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPatternsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List registered label file patterns in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range ctx.factory.Patterns() {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}
