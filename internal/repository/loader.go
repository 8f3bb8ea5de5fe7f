package repository

import (
	"context"
	"errors"
	"fmt"

	"homecare-rental/internal/timeline"

	"golang.org/x/sync/errgroup"
)

// ErrLoadFailed wraps any fetch failure of LoadSources.
var ErrLoadFailed = errors.New("failed to load data")

// LoadSources fetches appointments, rentals, sales and diagnostics of scope
// concurrently. The first failure cancels the others and LoadSources returns
// no data at all, so callers never aggregate a partial timeline.
func LoadSources(ctx context.Context, store Store, scope Scope) (timeline.Sources, error) {
	var src timeline.Sources
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := store.Appointments(gctx, scope)
		if err != nil {
			return fmt.Errorf("appointments: %w", err)
		}
		src.Appointments = out
		return nil
	})
	g.Go(func() error {
		out, err := store.Rentals(gctx, scope)
		if err != nil {
			return fmt.Errorf("rentals: %w", err)
		}
		src.Rentals = out
		return nil
	})
	g.Go(func() error {
		out, err := store.Sales(gctx, scope)
		if err != nil {
			return fmt.Errorf("sales: %w", err)
		}
		src.Sales = out
		return nil
	})
	g.Go(func() error {
		out, err := store.Diagnostics(gctx, scope)
		if err != nil {
			return fmt.Errorf("diagnostics: %w", err)
		}
		src.Diagnostics = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return timeline.Sources{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return src, nil
}
