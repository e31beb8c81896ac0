package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

func newGreetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "greet [name]",
		Short: "Check the bridge round trip",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "World"
			if len(args) == 1 {
				name = args[0]
			}

			client, closeBridge, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBridge()

			text, err := client.Greet(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newSampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print the built-in sample label on the default printer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeBridge, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBridge()

			text, err := client.Print(cmd.Context(), model.PrintSampleLabelRequest{})
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Print failed: %v\n", err)
				return errors.New("sample label was not printed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Printed successfully: %s\n", text)
			return nil
		},
	}
}
