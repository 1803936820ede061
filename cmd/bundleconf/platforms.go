// FILE: lixenwraith/bundleconf/cmd/bundleconf/platforms.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/bundleconf"
)

func newPlatformsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List known platforms and their output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := bundleconf.DefaultCatalog()
			out := cmd.OutOrStdout()
			for _, p := range catalog.Platforms() {
				if _, err := fmt.Fprintf(out, "%s: %s\n", p, strings.Join(catalog.OutputFormats(p), ", ")); err != nil {
					return err
				}
			}
			c.logger.Debug("listed platforms", "count", len(catalog))
			return nil
		},
	}
}
