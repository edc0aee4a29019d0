package session

import (
	"context"

	"github.com/edirooss/sdbsession/pkg/item"
	"github.com/edirooss/sdbsession/pkg/journal"
)

// Put writes attributes to items, grouped as domain → item → payload.
// One timestamp stamps the whole batch. Per domain, a single item goes
// through PutAttributes and several items through BatchPutAttributes.
//
// Remote failures surface unchanged and nothing is journaled for the
// failing domain; journal failures after a successful write are only
// logged (the store itself converges within the freshness window).
func (e *Engine) Put(ctx context.Context, records map[string]map[string]item.PutAttrs) error {
	if err := validatePutRecords(records); err != nil {
		return err
	}

	ts := journal.Timestamp(e.now())

	for domain, items := range records {
		// Stamp the marker onto an engine-owned copy; the caller's
		// payload stays clean and is what the journal records.
		stamped := make(map[string]item.PutAttrs, len(items))
		for itemName, attrs := range items {
			withMarker := attrs.Clone()
			withMarker[e.marker] = e.markerPut(ts)
			stamped[itemName] = withMarker
		}

		var err error
		if len(stamped) > 1 {
			err = e.store.BatchPutAttributes(ctx, domain, stamped)
		} else {
			for itemName, attrs := range stamped {
				err = e.store.PutAttributes(ctx, domain, itemName, attrs)
			}
		}
		if err != nil {
			return err
		}

		for itemName, attrs := range items {
			e.logAction(ctx, domain, itemName, ts, item.PutAction(attrs))
		}
	}

	return nil
}
