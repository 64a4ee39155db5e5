package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	app "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/ui"
	"github.com/okian/painel/pkg/logger"
)

func newEndpointsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the relative links found on the upstream root page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.New(opts.cfg, app.WithLogger(logger.Get()))
			if err != nil {
				return err
			}
			eps, err := svc.Discover(cmd.Context())
			if err != nil {
				return err
			}
			for _, ep := range eps {
				fmt.Fprintln(cmd.OutOrStdout(), ep.Path)
			}
			return nil
		},
	}
}

func newControlsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "controls",
		Short: "List the controls the dashboard binds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.New(opts.cfg, app.WithLogger(logger.Get()))
			if err != nil {
				return err
			}
			if err := svc.Start(cmd.Context()); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tLABEL\tINPUT")
			for _, c := range svc.Panel().Controls() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Kind, c.Label, c.Input)
			}
			return tw.Flush()
		},
	}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var socio string
	cmd := &cobra.Command{
		Use:   "run <control>",
		Short: "Run one control and print what the dashboard would show",
		Example: `  painel run btn-ativas
  painel run btn-by-socio --socio "Ana Souza"
  painel run endpoint:/empresas`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.New(opts.cfg, app.WithLogger(logger.Get()))
			if err != nil {
				return err
			}
			if err := svc.Start(cmd.Context()); err != nil {
				return err
			}
			out, err := svc.Trigger(cmd.Context(), args[0], ui.Input{Socio: socio})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Text)
			if out.Failed {
				return fmt.Errorf("control %s failed", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&socio, "socio", "", "Partner name read by "+ui.ControlBySocio)
	return cmd
}
