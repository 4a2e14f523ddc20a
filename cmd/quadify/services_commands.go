package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quadify/internal/orchestrator"
)

func newServicesCommand(ctx *commandContext) *cobra.Command {
	servicesCmd := &cobra.Command{
		Use:   "services",
		Short: "Inspect and reconcile the managed services",
	}

	servicesCmd.AddCommand(newServicesStatusCommand(ctx))
	servicesCmd.AddCommand(newServicesApplyCommand(ctx))

	return servicesCmd
}

func newServicesStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of every managed unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.newOrchestrator()
			if err != nil {
				return err
			}
			states := orch.Status(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Unit", "Active", "Enabled", "Detail"},
				statusRows(states, shouldColorize(out))))
			return nil
		},
	}
}

func newServicesApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Drive every managed unit to the state the settings require",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newSettingsEnv(ctx)
			if err != nil {
				return err
			}
			c, _ := env.current()
			orch, err := ctx.newOrchestrator()
			if err != nil {
				return err
			}
			results := orch.ApplyAll(cmd.Context(), c)
			printResults(cmd, results)
			return firstFailure(results)
		},
	}
}

// statusRows renders one row per unit with a fixed shape: unreadable units
// report "unknown" in both state columns and carry the error as detail.
func statusRows(states []orchestrator.UnitState, colorize bool) [][]string {
	rows := make([][]string, 0, len(states))
	for _, state := range states {
		if state.Err != nil {
			rows = append(rows, []string{state.Unit, "unknown", "unknown", state.Err.Error()})
			continue
		}
		rows = append(rows, []string{
			state.Unit,
			colorizeState(state.Status.ActiveState, colorize),
			state.Status.UnitFileState,
			state.Status.SubState,
		})
	}
	return rows
}

func printResults(cmd *cobra.Command, results []orchestrator.Result) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		detail := ""
		switch {
		case result.Skipped:
			detail = result.SkipReason
		case result.Err != nil:
			detail = result.Err.Error()
		case len(result.Outcomes) > 0 && result.Outcomes[0].FallbackUsed:
			detail = "converged via fallback"
		}
		state := "ok"
		if result.Skipped {
			state = "skipped"
		} else if result.Err != nil {
			state = "failed"
		}
		rows = append(rows, []string{
			result.Capability,
			yesNo(result.Desired),
			state,
			detail,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Capability", "Desired", "Result", "Detail"},
		rows))
}

func firstFailure(results []orchestrator.Result) error {
	for _, result := range results {
		if result.Err != nil {
			return fmt.Errorf("capability %s: %w", result.Capability, result.Err)
		}
	}
	return nil
}
