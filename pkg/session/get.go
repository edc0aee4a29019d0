package session

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/edirooss/sdbsession/pkg/item"
)

// getConcurrency caps the fan-out of a multi-item Get. The backing
// store serializes its connection anyway; the limit mostly bounds
// journal store pressure.
const getConcurrency = 8

// Get fetches items, grouped as domain → item → projection (empty
// projection = all attributes), and masks backing store staleness: each
// item's marker attribute is read alongside the payload, every
// journaled action newer than the marker is replayed over the response,
// and the marker is stripped from what the caller sees.
//
// An absent or empty marker means this process has not touched the item
// within the freshness window, so the backing store's answer is already
// the right one.
func (e *Engine) Get(ctx context.Context, records map[string]map[string][]string) (map[string]map[string]item.Item, error) {
	for domain, items := range records {
		for itemName, projection := range items {
			if err := item.ValidateProjection(projection); err != nil {
				return nil, fmt.Errorf("%s/%s: %w", domain, itemName, err)
			}
		}
	}

	result := make(map[string]map[string]item.Item, len(records))
	for domain, items := range records {
		result[domain] = make(map[string]item.Item, len(items))
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(getConcurrency)

	for domain, items := range records {
		for itemName, projection := range items {
			domain, itemName, projection := domain, itemName, projection
			g.Go(func() error {
				fetched, err := e.getOne(gctx, domain, itemName, projection)
				if err != nil {
					return err
				}
				mu.Lock()
				result[domain][itemName] = fetched
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// getOne runs the read path for a single item.
func (e *Engine) getOne(ctx context.Context, domain, itemName string, projection []string) (item.Item, error) {
	// An explicit projection must also pull the marker; an empty one
	// returns all attributes, marker included.
	requested := projection
	if len(projection) > 0 {
		requested = make([]string, 0, len(projection)+1)
		requested = append(requested, projection...)
		requested = append(requested, e.marker)
	}

	fetched, err := e.store.GetAttributes(ctx, domain, itemName, requested)
	if err != nil {
		return nil, err
	}

	marker := fetched[e.marker]
	delete(fetched, e.marker)

	if marker.Len() > 0 {
		fetched = e.journal.ReplaySince(ctx, domain, itemName, marker.Values()[0], fetched)
	}
	return fetched, nil
}
