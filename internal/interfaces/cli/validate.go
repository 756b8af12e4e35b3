package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long:  "Load and validate the configuration file without contacting any service.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), ctx)
		},
	}
}

func runValidate(ctx context.Context, cctx *Context) error {
	s, err := bootstrap(ctx, cctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintf(cctx.Stdout, "%s %s (%d domains)\n",
		SuccessStyle.Render("Configuration is valid:"), s.cfg.Source, len(s.cfg.Domains))
	for _, d := range s.cfg.Domains {
		fmt.Fprintf(cctx.Stdout, "  %s %v\n", d.FQDN(), d.RecordTypes())
	}
	return nil
}
