package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/edirooss/sdbsession/pkg/item"
	"github.com/edirooss/sdbsession/pkg/simpledb"
)

// Select queries a domain and returns item name → attributes. A nil or
// empty attrs projects all attributes (`*`); otherwise the named
// attributes are projected (the marker is appended under the hood).
// Every returned item is replayed against its own marker baseline, and
// markers are stripped from the results.
//
// where and orderBy are passed through as select-expression fragments;
// orderBy requires where (the sort attribute must appear in a
// predicate). limit <= 0 means no limit.
func (e *Engine) Select(ctx context.Context, attrs []string, domain, where, orderBy string, limit int) (map[string]item.Item, error) {
	if err := item.ValidateProjection(attrs); err != nil {
		return nil, err
	}

	projection := "*"
	if len(attrs) > 0 {
		projection = simpledb.QuoteAttrs(append(append([]string{}, attrs...), e.marker))
	}

	rows, err := e.store.Select(ctx, projection, domain, where, orderBy, limit)
	if err != nil {
		return nil, err
	}

	result := make(map[string]item.Item, len(rows))
	for _, row := range rows {
		fetched := row.Attrs
		if fetched == nil {
			fetched = item.Item{}
		}

		marker := fetched[e.marker]
		delete(fetched, e.marker)

		if marker.Len() > 0 {
			fetched = e.journal.ReplaySince(ctx, domain, row.Name, marker.Values()[0], fetched)
		}
		result[row.Name] = fetched
	}
	return result, nil
}

// SelectItemNames queries a domain with the itemName() projection and
// returns the matching item names.
//
// No replay happens for this projection: the names reflect whichever
// replica answered, nothing more.
func (e *Engine) SelectItemNames(ctx context.Context, domain, where, orderBy string, limit int) ([]string, error) {
	rows, err := e.store.Select(ctx, "itemName()", domain, where, orderBy, limit)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// SelectCount queries a domain with the count(*) projection. The
// service may split the count across pages; partial counts are summed.
//
// Like SelectItemNames, the result is replica-fresh only.
func (e *Engine) SelectCount(ctx context.Context, domain, where string, limit int) (int64, error) {
	rows, err := e.store.Select(ctx, "count(*)", domain, where, "", limit)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, row := range rows {
		for _, value := range row.Attrs["Count"].Values() {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("session: parse count value %q: %w", value, err)
			}
			total += n
		}
	}
	return total, nil
}
