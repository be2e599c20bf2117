package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result pairs one property's descriptor with the error that run produced.
// Order matches the input properties.
type Result struct {
	PropertyID string
	Descriptor *SceneDescriptor
	Err        error
}

// RunMany generates models for several properties concurrently, at most
// limit runs in flight (limit <= 0 means unbounded). Individual run
// failures land in the matching Result; only context cancellation aborts
// the batch early.
func (p *Pipeline) RunMany(ctx context.Context, props []Property, opts ModelingOptions, limit int) ([]Result, error) {
	results := make([]Result, len(props))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, prop := range props {
		g.Go(func() error {
			desc, err := p.Run(ctx, prop, opts)
			results[i] = Result{PropertyID: prop.PropertyID, Descriptor: desc, Err: err}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
