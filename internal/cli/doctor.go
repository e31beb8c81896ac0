package cli

import (
	"github.com/spf13/cobra"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/utils"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that this machine can render labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.ValidateSystemRequirements(cmd.OutOrStdout(), a.cfg.Render.ChromePath)
		},
	}
}
