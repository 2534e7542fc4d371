// Package cli implements quarterctl, a terminal front end for quarter
// progress.
package cli

import (
	"os"
	"time"

	"quarters/internal/quarter"

	"github.com/spf13/cobra"
)

// App carries the process dependencies the commands read. Zero fields fall
// back to the real clock and environment.
type App struct {
	Now    func() time.Time
	Getenv func(string) string
}

type rootOptions struct {
	app        App
	configPath string
	timezone   string
}

func NewRootCommand(app App) *cobra.Command {
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.Getenv == nil {
		app.Getenv = os.Getenv
	}
	opts := &rootOptions{app: app}

	root := &cobra.Command{
		Use:          "quarterctl",
		Short:        "Show how far we are through the current quarter",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+DefaultConfigPath()+")")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", "", "IANA timezone (overrides "+envTimezone+" and config)")

	root.AddCommand(newNowCommand(opts))
	root.AddCommand(newQuartersCommand(opts))
	root.AddCommand(newWatchCommand(opts))
	return root
}

// zone resolves the effective timezone for a command invocation.
func (o *rootOptions) zone() (*time.Location, error) {
	path, required := o.configPath, true
	if path == "" {
		path, required = DefaultConfigPath(), false
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return nil, err
	}
	return quarter.LoadZone(resolveTimezone(o.timezone, o.app.Getenv(envTimezone), cfg))
}
