// FILE: lixenwraith/bundleconf/cmd/bundleconf/root.go
package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "BUNDLECONF"

// cli carries state shared by all subcommands
type cli struct {
	v      *viper.Viper
	logger *log.Logger
}

func newRootCommand(version, commit, date string) *cobra.Command {
	c := &cli{v: newViper()}

	rootCmd := &cobra.Command{
		Use:   "bundleconf",
		Short: "Resolve packaging project settings for a platform and output format",
		Long: `bundleconf reads a project description (pyproject.toml by default) and
prints the merged configuration of each app for one platform and output format.

Settings are layered global < app < platform < output format; "requires" and
"sources" lists accumulate across layers.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.logger = newLogger(cmd.ErrOrStderr(), c.v.GetBool("verbose"))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	_ = c.v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(newResolveCommand(c))
	rootCmd.AddCommand(newPlatformsCommand(c))

	return rootCmd
}

// newViper binds BUNDLECONF_* environment variables
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("platform", hostPlatform())
	return v
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "bundleconf",
	})
}

// hostPlatform maps the running OS to a platform name
func hostPlatform() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS"
	case "windows":
		return "windows"
	default:
		return "linux"
	}
}
