package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-gridgen/pkg/renderers/terminal"
)

func newPromptCommand(a *app) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Edit the grid model interactively, then render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.orchestratorOptions(cmd, a)
			if err != nil {
				return err
			}
			orch, err := a.orchestrator(opts)
			if err != nil {
				return err
			}
			f, err := orch.Form()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			driver := terminal.NewSurveyDriver(cmd.ErrOrStderr())
			generate, err := terminal.PromptModel(ctx, driver, f, orch.Limits())
			if errors.Is(err, terminal.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
				return nil
			}
			if err != nil {
				return err
			}
			if generate {
				if _, err := orch.Generate(ctx); err != nil {
					return err
				}
			}

			out, err := orch.Render(ctx, flags.request(a))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.output, out.Body)
		},
	}
	flags.bind(cmd, "terminal")
	return cmd
}
