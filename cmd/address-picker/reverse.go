package main

import (
	"fmt"
	"strconv"
	"strings"

	"laundry_backend/internal/resolver"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type reverseResult struct {
	Query   string                      `json:"query"`
	Address *resolver.AddressComponents `json:"address"`
	Error   string                      `json:"error,omitempty"`
}

func newReverseCmd(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "reverse LAT,LNG [LAT,LNG...]",
		Short: "Reverse geocode one or more coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points := make([][2]float64, len(args))
			for i, arg := range args {
				lat, lng, err := parseLatLng(arg)
				if err != nil {
					return err
				}
				points[i] = [2]float64{lat, lng}
			}

			results := make([]reverseResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for i, p := range points {
				g.Go(func() error {
					record, err := a.resolver.ResolveFromCoordinates(ctx, p[0], p[1])
					results[i] = reverseResult{Query: args[i], Address: record}
					if err != nil {
						results[i].Error = err.Error()
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "maximum parallel provider calls")
	return cmd
}

func parseLatLng(s string) (float64, float64, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid coordinate %q: expected LAT,LNG", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	return lat, lng, nil
}
