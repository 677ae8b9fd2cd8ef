package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hongminglow/auth-smoke/internal/client"
	"github.com/hongminglow/auth-smoke/internal/config"
	"github.com/hongminglow/auth-smoke/internal/console"
	"github.com/hongminglow/auth-smoke/internal/logging"
	"github.com/hongminglow/auth-smoke/internal/smoke"
	"github.com/hongminglow/auth-smoke/internal/validate"
)

// errStepsFailed is returned in strict mode when any step of the run failed.
var errStepsFailed = errors.New("one or more smoke steps failed")

var settings = config.NewSmokeViper()

var rootCmd = &cobra.Command{
	Use:   "authsmoke",
	Short: "Smoke-test an auth API: register, login and fetch profile",
	Long: `authsmoke registers a fixed set of test users against an auth service,
logs each one in, verifies the issued token through /auth/me and prints
a summary of the collected tokens.

The run always exits 0 unless --strict is given, in which case a failed
step or an interrupted run exits 1. An invalid setting (for example a
SMOKE_BASE_URL without a scheme) is reported and exits 1 before any user
is processed.

Settings can also come from SMOKE_BASE_URL, SMOKE_NO_COLOR, SMOKE_STRICT,
SMOKE_VERBOSE and SMOKE_TIMEOUT (or a .env file).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadSmoke(settings)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out, tty := console.Stdout()
		return run(ctx, cfg, out, tty && !cfg.NoColor)
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv)

	flags := rootCmd.Flags()
	flags.String("base-url", config.DefaultBaseURL, "auth service root URL")
	flags.Bool("no-color", false, "disable ANSI colors")
	flags.Bool("strict", false, "exit 1 when any step fails")
	flags.BoolP("verbose", "v", false, "log every HTTP call to stderr")
	flags.Duration("timeout", 0, "per-request timeout (0 waits forever)")

	for key, flag := range map[string]string{
		config.KeyBaseURL: "base-url",
		config.KeyNoColor: "no-color",
		config.KeyStrict:  "strict",
		config.KeyVerbose: "verbose",
		config.KeyTimeout: "timeout",
	} {
		_ = settings.BindPFlag(key, flags.Lookup(flag))
	}
}

func loadDotEnv() {
	_ = godotenv.Load()
}

// run executes one scenario against cfg.BaseURL and writes the console report to out.
func run(ctx context.Context, cfg config.Smoke, out io.Writer, colored bool) error {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, "text", level)

	v, err := validate.New()
	if err != nil {
		return fmt.Errorf("init validator: %w", err)
	}

	api := client.New(cfg.BaseURL, v, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
	driver := smoke.NewDriver(api, out, console.NewStyler(colored))

	logger.Debug("starting smoke run", "base_url", cfg.BaseURL)
	report := driver.Run(ctx, smoke.Fixtures())
	logger.Debug("smoke run finished", "tokens", len(report.Tokens), "failures", report.Failures)

	if cfg.Strict && !report.OK() {
		return errStepsFailed
	}
	return nil
}
