// Package journal records, per item, the actions a process has performed
// against the backing store within a bounded freshness window, and
// replays them over stale reads.
//
// Layout in the Store:
//
//   - log family: <domain>:<item>:<timestamp> → serialized action,
//     expiring after the journal TTL;
//   - list family: <domain>:<item> → append-ordered timestamp list.
//
// The list exists so enumerating an item's entries does not require
// deserializing them, and so the log entries can carry a real TTL (list
// elements cannot). List elements expire lazily: replay and the random
// cleanup sweep drop timestamps older than the TTL as they meet them.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edirooss/sdbsession/internal/status"
	"github.com/edirooss/sdbsession/pkg/item"
)

// DefaultTTL is the freshness window applied when none is configured.
// It should comfortably exceed the backing store's observed replica
// propagation delay.
const DefaultTTL = 90 * time.Second

// Journal is the per-process action log.
//
// Safe for concurrent use: all state lives in the Store, and every
// operation is idempotent with respect to concurrent lazy expiry.
type Journal struct {
	log   *zap.Logger
	store Store
	ttl   time.Duration

	now func() time.Time
}

// New builds a Journal over the given store. A non-positive ttl falls
// back to DefaultTTL.
func New(log *zap.Logger, store Store, ttl time.Duration) *Journal {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Journal{
		log:   log.Named("journal"),
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// TTL returns the freshness window.
func (j *Journal) TTL() time.Duration { return j.ttl }

// logKey addresses one action in the log family.
func logKey(domain, itemName, timestamp string) string {
	return domain + ":" + itemName + ":" + timestamp
}

// listKey addresses an item's timestamp list in the list family.
func listKey(domain, itemName string) string {
	return domain + ":" + itemName
}

// LogAction records one performed action: the serialized action under
// its log key with the journal TTL, then the timestamp appended to the
// item's list. The two writes are not atomic; a timestamp left in the
// list after its log entry expired is skipped on replay.
func (j *Journal) LogAction(ctx context.Context, domain, itemName, timestamp string, act item.Action) error {
	data, err := json.Marshal(act)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	if err := j.store.SetWithTTL(ctx, logKey(domain, itemName, timestamp), string(data), j.ttl); err != nil {
		return err
	}
	return j.store.ListAppend(ctx, listKey(domain, itemName), timestamp)
}

// ReplaySince walks the item's timestamp list in recorded order and
// applies every non-expired action strictly newer than baseline to
// base, returning the result. Expired timestamps are removed from the
// list on the way (opportunistic GC).
//
// Replay is best effort: store failures and undecodable entries are
// logged and skipped, never surfaced, so a read can at worst fall back
// to the backing store's own (eventually consistent) answer.
func (j *Journal) ReplaySince(ctx context.Context, domain, itemName, baseline string, base item.Item) item.Item {
	log := j.log.With(zap.String("domain", domain), zap.String("item", itemName))

	baselineAt, err := ParseTimestamp(baseline)
	if err != nil {
		log.Warn("unparseable baseline timestamp; skipping replay",
			zap.String("baseline", baseline), zap.Error(err))
		return base
	}

	key := listKey(domain, itemName)
	timestamps, err := j.store.ListRange(ctx, key, 0, -1)
	if err != nil {
		log.Warn("journal list read failed; returning backing store state", zap.Error(err))
		return base
	}

	now := j.now()
	current := base
	for _, ts := range timestamps {
		entryAt, err := ParseTimestamp(ts)
		if err != nil {
			// Poison list element; drop it so it cannot block future replays.
			log.Warn("unparseable journal timestamp; removing", zap.String("timestamp", ts), zap.Error(err))
			j.removeListEntry(ctx, key, ts)
			continue
		}

		if now.Sub(entryAt) >= j.ttl {
			j.removeListEntry(ctx, key, ts)
			continue
		}

		if !entryAt.After(baselineAt) {
			continue
		}

		raw, err := j.store.Get(ctx, logKey(domain, itemName, ts))
		if err != nil {
			if !errors.Is(err, ErrKeyNotFound) {
				log.Warn("journal entry read failed; skipping", zap.String("timestamp", ts), zap.Error(err))
			}
			// ErrKeyNotFound: the log entry expired while its timestamp
			// was still listed. Allowed race; skip.
			continue
		}

		var act item.Action
		if err := json.Unmarshal([]byte(raw), &act); err != nil {
			log.Warn("stale journal entry encoding; skipping", zap.String("timestamp", ts), zap.Error(err))
			continue
		}

		current = item.Simulate(current, act)
		status.LatestChangesApplied.Add(1)
	}
	return current
}

// RandomCleanup samples one item list and removes its expired
// timestamps, returning how many were removed. Bounds list growth for
// items that are never re-read. Idempotent and safe to run concurrently
// with readers.
func (j *Journal) RandomCleanup(ctx context.Context) (int, error) {
	key, err := j.store.RandomListKey(ctx)
	if err != nil {
		return 0, err
	}
	if key == "" {
		return 0, nil
	}

	timestamps, err := j.store.ListRange(ctx, key, 0, -1)
	if err != nil {
		return 0, err
	}

	now := j.now()
	removed := 0
	for _, ts := range timestamps {
		entryAt, err := ParseTimestamp(ts)
		if err != nil {
			j.log.Warn("unparseable journal timestamp; removing",
				zap.String("key", key), zap.String("timestamp", ts), zap.Error(err))
			j.removeListEntry(ctx, key, ts)
			continue
		}
		if now.Sub(entryAt) >= j.ttl {
			j.removeListEntry(ctx, key, ts)
			removed++
			status.RandomExpiredDeletes.Add(1)
		}
	}

	if removed > 0 {
		j.log.Debug("journal cleanup", zap.String("key", key), zap.Int("removed", removed))
	}
	return removed, nil
}

// removeListEntry drops one occurrence of ts; failures only mean the
// entry survives until the next sweep.
func (j *Journal) removeListEntry(ctx context.Context, key, ts string) {
	if err := j.store.ListRemove(ctx, key, ts, 1); err != nil {
		j.log.Warn("journal list trim failed", zap.String("key", key), zap.String("timestamp", ts), zap.Error(err))
	}
}
