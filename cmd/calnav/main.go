// Command calnav drives calendar widgets in a real browser: it navigates a
// flat or drill-down date picker to a date, or books the earliest free slot
// in an appointment grid.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kuitang/screening-ui/internal/artifacts"
	"github.com/kuitang/screening-ui/internal/clock"
	"github.com/kuitang/screening-ui/internal/config"
	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/obs"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	driver    string
	headless  bool
	selectors string
	logLevel  string
	timezone  string
	timeout   time.Duration
}

// app carries the resolved configuration into subcommands.
type app struct {
	opts  globalOptions
	cfg   *config.Config
	clock clock.Clock
	open  opener
	store *artifacts.Store
	out   io.Writer
	err   io.Writer
}

func main() {
	cmd := NewCommand(&app{open: openBrowser})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(errs.ExitCode(errs.CodeOf(err)))
	}
}

// NewCommand builds the calnav command tree around a.
func NewCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calnav",
		Short: "calnav drives calendar widgets and appointment grids in a browser",
		Long: `calnav drives calendar widgets and appointment grids in a browser.

Configuration comes from CALNAV_* and AWS_* environment variables; flags
override them. Failures upload a screenshot and the page HTML to
ARTIFACT_BUCKET when it is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.driver, "driver", config.DriverPlaywright, "browser driver (playwright, chromedp)")
	flags.BoolVar(&a.opts.headless, "headless", true, "run the browser without a window")
	flags.StringVar(&a.opts.selectors, "selectors", "", "TOML selector catalogue overriding the defaults")
	flags.StringVarP(&a.opts.logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&a.opts.timezone, "tz", "", "IANA zone the site computes today in (default: local)")
	flags.DurationVar(&a.opts.timeout, "timeout", 0, "per-action timeout (default: CALNAV_ACTION_TIMEOUT or 5s)")

	cmd.AddCommand(
		newFlatCommand(a),
		newHierCommand(a),
		newSlotCommand(a),
	)
	return cmd
}

// setup loads the environment configuration and applies explicit flags on top.
func (a *app) setup(cmd *cobra.Command) error {
	obs.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return errs.Wrap(errs.InvalidArgument, "invalid configuration", err)
		}
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = a.opts.driver
	}
	if flags.Changed("headless") {
		cfg.Headless = a.opts.headless
	}
	if flags.Changed("timeout") {
		cfg.ActionTimeout = a.opts.timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.opts.logLevel
	}
	if flags.Changed("selectors") {
		cfg.SelectorsFile = a.opts.selectors
		if err := cfg.ReloadSelectors(); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return errs.Wrap(errs.InvalidArgument, "invalid configuration", err)
	}
	obs.SetLevel(obs.ParseLevel(cfg.LogLevel))

	if a.clock == nil {
		sys := clock.System{}
		if a.opts.timezone != "" {
			loc, err := time.LoadLocation(a.opts.timezone)
			if err != nil {
				return errs.Wrap(errs.InvalidArgument, fmt.Sprintf("unknown time zone %q", a.opts.timezone), err)
			}
			sys.Location = loc
		}
		a.clock = sys
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	a.err = cmd.ErrOrStderr()
	return nil
}
