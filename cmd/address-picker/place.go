package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newPlaceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "place PLACE_ID",
		Short: "Resolve a place id into an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := a.resolver.ResolvePlace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if record == nil {
				return errors.New("address unknown, please enter manually")
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
}
