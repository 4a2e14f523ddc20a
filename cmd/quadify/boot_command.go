package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"quadify/internal/logging"
	"quadify/internal/prefs"
)

// newBootCommand builds the command run at system startup. Boot never fails
// the unit it runs under: every problem is logged and the command exits
// zero so a bad preference file cannot wedge startup.
func newBootCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "boot",
		Short: "Seed missing settings files and reconcile services at startup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := logging.NewComponentLogger(ctx.ensureLogger(), "boot")

			env, err := newSettingsEnv(ctx)
			if err != nil {
				return err
			}

			if _, err := os.Stat(cfg.Paths.PreferenceFile); errors.Is(err, fs.ErrNotExist) {
				logger.Info("preference file missing, seeding defaults",
					logging.String(logging.FieldPath, cfg.Paths.PreferenceFile))
			}

			c, doc := env.current()
			if err := env.persist(c, prefs.StoredSubMode(doc)); err != nil {
				logger.Error("persisting settings failed", logging.Error(err))
			}

			if pin := env.hardware.Truth().IRGPIOPin; pin != nil {
				if err := env.overlay.CommitIRPin(*pin); err != nil {
					logger.Error("boot overlay update failed", logging.Error(err))
				}
			}

			orch, err := ctx.newOrchestrator()
			if err != nil {
				return err
			}
			results := orch.ApplyAll(cmd.Context(), c)
			for _, result := range results {
				if result.Err != nil {
					logger.Error("capability did not converge",
						logging.String(logging.FieldCapability, result.Capability),
						logging.Error(result.Err))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Boot reconciliation finished")
			return nil
		},
	}
}
