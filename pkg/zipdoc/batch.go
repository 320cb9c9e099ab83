package zipdoc

import (
	"context"

	"github.com/benjaminschreck/go-zipdoc/pkg/zipdoc/merge"
	"golang.org/x/sync/errgroup"
)

// RenderAll renders one document per context, at most parallelism at a time.
// Results are in the order of contexts. The first failure cancels the
// remaining renders and is returned. parallelism <= 0 uses MaxParallelRenders
// from the global configuration.
func (t *Template) RenderAll(ctx context.Context, contexts []merge.Context, parallelism int) ([]*RenderedDocument, error) {
	if parallelism <= 0 {
		parallelism = GetGlobalConfig().MaxParallelRenders
	}
	if parallelism <= 0 {
		parallelism = 1
	}

	results := make([]*RenderedDocument, len(contexts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, data := range contexts {
		i, data := i, data
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := t.RenderContext(gctx, data)
			if err != nil {
				return WithContext(err, "rendering batch item", map[string]interface{}{"index": i})
			}
			results[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
