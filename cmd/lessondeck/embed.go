package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lessondeck/internal/cli"
	"github.com/at-ishikawa/lessondeck/internal/embed"
)

func newEmbedCommand() *cobra.Command {
	embedCmd := &cobra.Command{
		Use:   "embed",
		Short: "Inspect lesson links",
	}
	embedCmd.AddCommand(&cobra.Command{
		Use:   "resolve <url>",
		Short: "Show the embed, view and download URLs of a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := embed.Resolve(args[0])
			if !ok {
				return errors.New("link is blank")
			}
			cli.NewCatalogPrinter(cmd.OutOrStdout()).PrintEmbed(target)
			return nil
		},
	})
	return embedCmd
}
