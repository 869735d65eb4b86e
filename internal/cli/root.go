package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/provisioner/internal/config"
)

var version = "0.1.0"

// NewRootCmd builds the provisioner command. Running it without flags
// provisions user00001..user10000 against the local service and writes
// tokens.txt.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "provisioner",
		Short:   "Create test accounts and collect their login tokens",
		Version: version,
		Long: `Provisioner signs up a numbered range of accounts on the forum service,
logs each one in and saves the returned tokens to a file, one per line.

Signup failures are reported and ignored since the account may already exist.
Login failures are reported and skipped. The run pauses briefly every
hundred accounts to keep the load on the service low.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runProvision,
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "YAML file overriding the built-in defaults")
	flags.String("base-url", config.DefaultBaseURL, "Root URL of the service")
	flags.String("signup-path", config.DefaultSignupPath, "Signup endpoint path")
	flags.String("login-path", config.DefaultLoginPath, "Login endpoint path")
	flags.String("prefix", config.DefaultUserPrefix, "Username prefix")
	flags.String("password", config.DefaultPassword, "Password shared by every account")
	flags.Int("start", config.DefaultStart, "First sequence number")
	flags.IntP("count", "n", config.DefaultCount, "Number of accounts")
	flags.DurationP("timeout", "t", config.DefaultTimeout, "Per-request timeout")
	flags.Int("throttle-every", config.DefaultThrottleEvery, "Pause after every N accounts (0 disables)")
	flags.Duration("throttle-pause", config.DefaultThrottlePause, "Length of each pause")
	flags.StringP("output", "o", config.DefaultOutput, "File the tokens are written to")
	flags.Bool("no-color", false, "Disable colored output")

	return cmd
}

// Execute runs the root command with a background context.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}
