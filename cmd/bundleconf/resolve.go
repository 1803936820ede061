// FILE: lixenwraith/bundleconf/cmd/bundleconf/resolve.go
package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/bundleconf"
)

func newResolveCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the merged configuration for a platform and output format",
		Example: `  bundleconf resolve --platform linux --output-format appimage
  bundleconf resolve -f pyproject.toml -p macOS --app hello --encoding json
  BUNDLECONF_PLATFORM=windows bundleconf resolve --validate
  bundleconf resolve -p linux -o flatpak --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringP("file", "f", "", "project file (default: discover pyproject.toml)")
	flags.StringP("platform", "p", "", "target platform (default: host platform)")
	flags.StringP("output-format", "o", "", "target output format")
	flags.String("app", "", "print only this app's configuration")
	flags.String("input", "auto", "project file format: auto, toml, json or yaml")
	flags.String("encoding", "toml", "output encoding: toml, json or yaml")
	flags.String("namespace", bundleconf.DefaultNamespace, "dotted path of the global settings section")
	flags.Bool("validate", false, "validate every app's name, bundle, version and sources")
	flags.String("write", "", "write the result to this file instead of stdout")
	flags.Bool("watch", false, "re-resolve and print again whenever the project file changes")
	flags.Bool("flat", false, "print dotted key = value lines instead of a document")

	for _, name := range []string{"file", "platform", "output-format", "app", "input", "encoding", "namespace", "validate", "write", "watch", "flat"} {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}

	return cmd
}

func (c *cli) runResolve(cmd *cobra.Command) error {
	catalog := bundleconf.DefaultCatalog()

	sel := bundleconf.Selector{
		Platform:     c.v.GetString("platform"),
		OutputFormat: c.v.GetString("output-format"),
	}
	if !slices.Contains(catalog.Platforms(), sel.Platform) {
		return fmt.Errorf("unknown platform %q (known: %v)", sel.Platform, catalog.Platforms())
	}
	formats := catalog.OutputFormats(sel.Platform)
	if sel.OutputFormat != "" && !slices.Contains(formats, sel.OutputFormat) {
		return fmt.Errorf("unknown output format %q for %s (known: %v)", sel.OutputFormat, sel.Platform, formats)
	}

	input, err := bundleconf.ParseFormat(c.v.GetString("input"))
	if err != nil {
		return err
	}
	encoding, err := bundleconf.ParseFormat(c.v.GetString("encoding"))
	if err != nil {
		return err
	}

	b := bundleconf.NewBuilder().
		WithArgs(nil).
		WithCatalog(catalog).
		WithNamespace(c.v.GetString("namespace")).
		WithLogger(c.logger).
		WithFormat(input).
		WithPlatform(sel.Platform).
		WithOutputFormat(sel.OutputFormat)

	if file := c.v.GetString("file"); file != "" {
		b.WithFile(file)
	} else {
		b.WithFileDiscovery(bundleconf.DefaultDiscoveryOptions("bundleconf"))
	}
	if c.v.GetBool("validate") {
		b.WithValidator(bundleconf.ValidateApps)
	}

	c.logger.Debug("resolving", "platform", sel.Platform, "format", sel.OutputFormat)
	res, err := b.Build()
	if err != nil {
		return err
	}
	c.logger.Info("resolved", "apps", len(res.Apps), "platform", sel.Platform, "format", sel.OutputFormat)

	if err := c.emit(cmd, res, encoding); err != nil {
		return err
	}
	if !c.v.GetBool("watch") {
		return nil
	}

	opts := bundleconf.DefaultWatchOptions()
	opts.Format = input
	resolver := b.Resolver()
	w, err := resolver.Watch(cmd.Context(), b.File(), sel, opts)
	if err != nil {
		return err
	}
	defer w.Stop()

	c.logger.Info("watching", "path", w.Path())
	for ev := range w.Subscribe() {
		if ev.Err != nil {
			c.logger.Error("re-resolve failed", "err", ev.Err)
			continue
		}
		c.logger.Info("project file changed", "apps", ev.Apps, "global", ev.GlobalChanged)
		if err := c.emit(cmd, ev.Resolution, encoding); err != nil {
			return err
		}
	}
	return nil
}

// emit prints or writes the resolution, or one app of it when --app is set
func (c *cli) emit(cmd *cobra.Command, res *bundleconf.Resolution, encoding bundleconf.Format) error {
	doc := res.Document()
	if name := c.v.GetString("app"); name != "" {
		app, ok := res.App(name)
		if !ok {
			return fmt.Errorf("app %q is not defined (apps: %v)", name, res.AppNames())
		}
		doc = app.Map()
	}

	if c.v.GetBool("flat") {
		return printFlat(cmd.OutOrStdout(), doc)
	}

	if path := c.v.GetString("write"); path != "" {
		if err := bundleconf.WriteFile(path, doc, encoding); err != nil {
			return err
		}
		c.logger.Info("wrote configuration", "path", path)
		return nil
	}

	return bundleconf.Encode(cmd.OutOrStdout(), doc, encoding)
}

func printFlat(w io.Writer, doc map[string]any) error {
	tree, err := bundleconf.FromMap(doc)
	if err != nil {
		return err
	}
	flat := tree.Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s = %v\n", k, flat[k]); err != nil {
			return err
		}
	}
	return nil
}
