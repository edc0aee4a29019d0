package journal

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound means the requested key does not exist in the store.
var ErrKeyNotFound = errors.New("journal key not found")

// Store is the scratch storage the journal runs on. Two disjoint key
// families back it:
//
//   - the log family: plain string entries with a per-key TTL
//     (SetWithTTL/Get/TTL);
//   - the list family: append-ordered lists without per-element TTL
//     (ListAppend/ListRange/ListRemove/ListDelete/ListLength).
//
// RandomListKey samples the list family only; implementations must keep
// the families disjoint so sampling can never return a log entry.
type Store interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the log entry under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// TTL returns the remaining lifetime of a log entry; negative when
	// the key does not exist or carries no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)

	ListAppend(ctx context.Context, key, element string) error
	// ListRange returns elements [start, stop] inclusive; -1 addresses
	// the last element. A missing key yields an empty slice.
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// ListRemove deletes up to count occurrences of element, oldest first.
	ListRemove(ctx context.Context, key, element string, count int64) error
	ListDelete(ctx context.Context, key string) error
	ListLength(ctx context.Context, key string) (int64, error)

	// RandomListKey returns a uniformly sampled key of the list family,
	// or "" when the family is empty.
	RandomListKey(ctx context.Context) (string, error)
}
