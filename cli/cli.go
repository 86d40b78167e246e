package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"admincheck/reporter"
	"admincheck/toolkit"
)

// NewRootCommand builds the command tree. stdout receives the human report,
// stderr receives logs.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	v := toolkit.NewViper()

	root := &cobra.Command{
		Use:           "admincheck",
		Short:         "Contract checks for the e-commerce admin API",
		Long:          "Runs an ordered sequence of admin API calls (login, categories, image upload, products) and reports pass/fail for each.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Executes the admin API check sequence",
		Long:  "Logs in, then checks categories, image upload and products against the target. Exits non-zero if login fails or any check fails.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(cmd.Context(), v, stdout, stderr)
		},
	}

	flags := run.Flags()
	flags.String(toolkit.KeyBaseURL, toolkit.DefaultBaseURL, "admin API base URL")
	flags.String(toolkit.KeyEmail, toolkit.DefaultEmail, "admin login email")
	flags.String(toolkit.KeyPassword, "", "admin login password (prefer "+toolkit.EnvPrefix+"_PASSWORD)")
	flags.Duration(toolkit.KeyTimeout, toolkit.DefaultTimeout, "per-request timeout")
	flags.String(toolkit.KeyReport, "", "write a JSON report to this path")
	flags.String(toolkit.KeyXLSX, "", "write an XLSX report to this path")
	flags.Bool(toolkit.KeyCleanup, false, "delete the created product at the end of the run")
	flags.String(toolkit.KeyLogLevel, "warn", "log level: debug, info, warn, error")
	flags.String(toolkit.KeyEnvFile, ".env", "optional dotenv file with "+toolkit.EnvPrefix+"_* variables")
	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	root.AddCommand(run)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root
}

func runChecks(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer) error {
	// the env file may carry ADMINCHECK_LOG_LEVEL, so it is loaded first
	envErr := toolkit.LoadEnvFile(v.GetString(toolkit.KeyEnvFile))
	setupLogging(stderr, v.GetString(toolkit.KeyLogLevel))
	if envErr != nil {
		return envErr
	}

	cfg, err := toolkit.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("cli.run: config loaded", "base_url", cfg.BaseURL, "email", cfg.Email, "timeout", cfg.Timeout)

	console := reporter.NewConsole(stdout, isTerminal(stdout))
	rep, runErr := reporter.Run(ctx, cfg, console)
	if rep.RunID != "" {
		if err := reporter.Persist(rep, cfg); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// Execute runs the CLI and exits with 0 only when every check passed.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, reporter.ErrAborted), errors.Is(err, reporter.ErrChecksFailed):
		slog.Debug("cli.execute: checks did not pass", "error", err)
		// persist failures arrive joined to the run error
		if joined, ok := err.(interface{ Unwrap() []error }); ok && len(joined.Unwrap()) > 1 {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}
