package main

import (
	"encoding/json"
	"fmt"
	"io"

	"laundry_backend/internal/gazetteer"
	"laundry_backend/internal/geocode"
	"laundry_backend/internal/resolver"
	"laundry_backend/platform/config"
	"laundry_backend/platform/logger"

	"github.com/spf13/cobra"
)

type app struct {
	cfg      *config.Config
	log      *logger.Logger
	provider *geocode.Client
	resolver *resolver.Service
}

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:          "address-picker",
		Short:        "Resolve delivery addresses from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr(), opts)
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log provider calls to stderr")

	cmd.AddCommand(newReverseCmd(a), newPlaceCmd(a), newSearchCmd(a))
	return cmd
}

func (a *app) init(stderr io.Writer, opts *rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Discard()
	if opts.verbose {
		log = logger.NewWithWriter(cfg.Env, stderr)
	}

	store, err := gazetteer.NewStore(cfg.GetGazetteerPath(), log)
	if err != nil {
		return fmt.Errorf("load gazetteer: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.provider = geocode.New(cfg, log)
	a.resolver = resolver.NewService(a.provider, store, log)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

