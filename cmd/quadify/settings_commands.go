package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quadify/internal/prefs"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change user settings",
	}

	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	settingsCmd.AddCommand(newSettingsApplyCommand(ctx))

	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newSettingsEnv(ctx)
			if err != nil {
				return err
			}
			c, doc := env.current()
			out := cmd.OutOrStdout()
			rows := append(settingsRows(c), passthroughRows(doc)...)
			fmt.Fprintln(out, renderTable([]string{"Key", "Value"}, rows))
			return nil
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one settings key and persist all representations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newSettingsEnv(ctx)
			if err != nil {
				return err
			}
			c, err := env.applySetting(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s; screen is now %s\n", args[0], c.Display.Screen)
			return nil
		},
	}
}

func newSettingsApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Persist the effective settings and reconcile services",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newSettingsEnv(ctx)
			if err != nil {
				return err
			}
			c, doc := env.current()
			if err := env.persist(c, prefs.StoredSubMode(doc)); err != nil {
				return err
			}
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
