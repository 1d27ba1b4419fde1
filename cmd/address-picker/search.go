package main

import (
	"errors"

	"laundry_backend/internal/addressflow"
	"laundry_backend/internal/picker"
	"laundry_backend/internal/requesttoken"
	"laundry_backend/internal/search"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Search for a place and confirm a delivery address interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens := requesttoken.NewMemory(a.cfg.GetSearchTokenTTL())
			searcher := search.NewService(a.resolver, tokens, a.log)

			// Short queries deliver their empty result from inside Update, where a
			// blocking Send would deadlock the program loop.
			var program *tea.Program
			session := search.NewSession(searcher, a.resolver, search.SessionOptions{
				Debounce:  a.cfg.GetSearchDebounce(),
				OnResults: func(r search.Result) { go program.Send(picker.ResultsMsg{Result: r}) },
				OnError:   func(err error) { go program.Send(picker.ErrorMsg{Err: err}) },
				Logger:    a.log,
			})
			defer session.Close()

			model := picker.New(cmd.Context(), session, addressflow.New(nil, a.cfg.GetPhoneRegion()), nil)
			program = tea.NewProgram(model, tea.WithContext(cmd.Context()), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return err
			}

			saved := model.Saved()
			if saved == nil {
				return errors.New("no address saved")
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	}
}
