package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wesleyorama2/provisioner/internal/config"
	"github.com/wesleyorama2/provisioner/internal/output"
	"github.com/wesleyorama2/provisioner/internal/provision"
	"github.com/wesleyorama2/provisioner/internal/tokenfile"
)

func runProvision(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Check(); err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	out := cmd.OutOrStdout()
	reporter := output.NewReporter(out, !output.ColorEnabled(out, noColor))

	p := provision.New(cfg, provision.WithObserver(reporter))

	reporter.Start(cfg)
	res, runErr := p.Run(cmd.Context())

	// Whatever was collected is saved, even after an interrupted run.
	if err := tokenfile.Write(cfg.Output, res.Tokens); err != nil {
		return fmt.Errorf("saving tokens: %w", err)
	}

	reporter.Summary(res, cfg.Output, p.Recorder().Snapshot())
	return runErr
}

// loadConfig layers the config file, then explicitly set flags, over the defaults.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()

	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	if flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("signup-path") {
		cfg.SignupPath, _ = flags.GetString("signup-path")
	}
	if flags.Changed("login-path") {
		cfg.LoginPath, _ = flags.GetString("login-path")
	}
	if flags.Changed("prefix") {
		cfg.UserPrefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("password") {
		cfg.Password, _ = flags.GetString("password")
	}
	if flags.Changed("start") {
		cfg.Start, _ = flags.GetInt("start")
	}
	if flags.Changed("count") {
		cfg.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("throttle-every") {
		cfg.ThrottleEvery, _ = flags.GetInt("throttle-every")
	}
	if flags.Changed("throttle-pause") {
		cfg.ThrottlePause, _ = flags.GetDuration("throttle-pause")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}

	return cfg, nil
}
