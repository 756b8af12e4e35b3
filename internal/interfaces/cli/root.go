package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lite-lake/namesilo-ddns/internal/constants"
)

var Version = "dev"

// errRunFailed reports a non-zero exit whose cause has already been logged.
var errRunFailed = errors.New("run failed")

func NewRootCommand(ctx *Context) *cobra.Command {
	runCmd := newRunCommand(ctx)

	rootCmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Dynamic DNS updater for NameSilo",
		Long:          "Keeps A and AAAA records at NameSilo pointed at this host's public addresses.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd.RunE,
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.ConfigPath, "config", "c", "", "Config file (default: search ~/.config/namesilo_dyndns.yaml, /etc/namesilo_dyndns/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&ctx.Verbose, "verbose", "v", false, "Also log to stderr")
	rootCmd.PersistentFlags().StringVar(&ctx.LogFile, "log-file", "", "Log file path (overrides log_file)")
	rootCmd.PersistentFlags().StringVar(&ctx.LogFormat, "log-format", ctx.LogFormat, "Log format: pattern, text or json")
	rootCmd.PersistentFlags().BoolVar(&ctx.Debug, "debug", false, "Enable debug logging")

	rootCmd.SetOut(ctx.Stdout)
	rootCmd.SetErr(ctx.Stderr)

	rootCmd.AddCommand(
		runCmd,
		newPlanCommand(ctx),
		newValidateCommand(ctx),
	)

	return rootCmd
}

// ExecuteArgs runs the command tree with args and returns the process exit code.
func ExecuteArgs(ctx context.Context, cctx *Context, args []string) int {
	rootCmd := NewRootCommand(cctx)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(cctx.Stderr, ErrorStyle.Render("Error: "+err.Error()))
		}
		return 1
	}
	return 0
}

// Execute runs the CLI with the process arguments. SIGINT and SIGTERM
// cancel the run in progress.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ExecuteArgs(ctx, NewContext(), os.Args[1:])
}
