package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/folio/internal/config"
	"github.com/templui/folio/internal/gate"
)

func PinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Editor PIN tools",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check <pin>",
		Short: "Check a PIN against the configured EDIT_PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.ValidPIN(args[0]) {
				return fmt.Errorf("a PIN is exactly 4 digits")
			}

			g := gate.New(gate.LocalPIN(config.Load().EditPIN))
			if !g.Submit(cmd.Context(), args[0]) {
				return errors.New(g.Error())
			}

			fmt.Fprintln(cmd.OutOrStdout(), "PIN ok")
			return nil
		},
	})

	return cmd
}
