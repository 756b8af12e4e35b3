package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lite-lake/namesilo-ddns/internal/application/orchestrator"
	"github.com/lite-lake/namesilo-ddns/internal/domain/valueobject"
)

func newPlanCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what run would change",
		Long:  "Resolve the public addresses and compare them with the registrar's records without changing anything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), ctx)
		},
	}
}

func runPlan(ctx context.Context, cctx *Context) error {
	s, err := bootstrap(ctx, cctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	res := orchestrator.NewWorkflow(s.cfg, orchestrator.WithLogger(s.log)).Plan(ctx)

	if res.ExitStatus == orchestrator.ExitOK && !res.Outcomes.HasChanges() && res.Outcomes.Count(valueobject.ActionFailed) == 0 {
		fmt.Fprintln(cctx.Stdout, "No changes detected.")
		return nil
	}
	fmt.Fprint(cctx.Stdout, renderOutcomes("Execution Plan:", res.Outcomes))

	if res.ExitStatus != orchestrator.ExitOK {
		return errRunFailed
	}
	return nil
}
