package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lite-lake/namesilo-ddns/internal/application/orchestrator"
	"github.com/lite-lake/namesilo-ddns/internal/domain"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/state"
)

func newRunCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Update DNS records",
		Long:  "Resolve the public addresses and create or update the configured records. This is the default command.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), ctx)
		},
	}
}

func runUpdate(ctx context.Context, cctx *Context) error {
	s, err := bootstrap(ctx, cctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	lock := state.NewRunLock(s.cfg.LockFile)
	if err := lock.TryAcquire(); err != nil {
		if errors.Is(err, domain.ErrRunLocked) {
			s.log.Warn("another update is already running, skipping", "lock", lock.Path())
			return nil
		}
		s.log.Error("cannot take run lock", "error", err)
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			s.log.Warn("releasing run lock", "error", err)
		}
	}()

	res := orchestrator.NewWorkflow(s.cfg, orchestrator.WithLogger(s.log)).Run(ctx)

	if cctx.Debug {
		logger.LogMetrics(logger.ContextWithLogger(ctx, s.log))
	}
	if s.cfg.Verbose {
		fmt.Fprint(cctx.Stdout, renderOutcomes("DNS update", res.Outcomes))
	}

	if res.ExitStatus != orchestrator.ExitOK {
		return errRunFailed
	}
	return nil
}
