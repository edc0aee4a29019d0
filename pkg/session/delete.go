package session

import (
	"context"

	"github.com/edirooss/sdbsession/pkg/item"
	"github.com/edirooss/sdbsession/pkg/journal"
)

// Delete removes values, attributes, or whole items, grouped as
// domain → item → payload (empty payload = whole item).
//
// The marker is re-written as a separate put after each delete: a
// whole-item delete wipes every attribute including any previous
// marker, and the item must still carry a fresh baseline for the next
// read. A crash between the delete and the marker put leaves the item
// unstamped; the next read then simply trusts the backing store.
func (e *Engine) Delete(ctx context.Context, records map[string]map[string]item.DeleteAttrs) error {
	if err := validateDeleteRecords(records); err != nil {
		return err
	}

	for domain, items := range records {
		for itemName, attrs := range items {
			if err := e.store.DeleteAttributes(ctx, domain, itemName, attrs); err != nil {
				return err
			}

			ts := journal.Timestamp(e.now())
			if err := e.store.PutAttributes(ctx, domain, itemName, item.PutAttrs{
				e.marker: e.markerPut(ts),
			}); err != nil {
				return err
			}

			e.logAction(ctx, domain, itemName, ts, item.DeleteAction(attrs))
		}
	}

	return nil
}
