package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edirooss/sdbsession/pkg/item"
	"github.com/edirooss/sdbsession/pkg/journal"
	"github.com/edirooss/sdbsession/pkg/journal/journaltest"
)

const testTTL = 90 * time.Second

func newTestJournal(t *testing.T) (*journal.Journal, *journaltest.Store) {
	t.Helper()
	store := journaltest.NewStore()
	return journal.New(zap.NewNop(), store, testTTL), store
}

func TestTimestampRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 3, 12, 34, 56, 789012000, time.UTC)
	ts := journal.Timestamp(at)
	assert.Equal(t, "2024-05-03T12:34:56.789012", ts)

	parsed, err := journal.ParseTimestamp(ts)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestTimestampsSortLexicographically(t *testing.T) {
	base := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	earlier := journal.Timestamp(base)
	later := journal.Timestamp(base.Add(3 * time.Microsecond))
	assert.Less(t, earlier, later)
}

func TestNewDefaultsTTL(t *testing.T) {
	j := journal.New(nil, journaltest.NewStore(), 0)
	assert.Equal(t, journal.DefaultTTL, j.TTL())
}

func TestLogActionWritesLogEntryAndListElement(t *testing.T) {
	ctx := context.Background()
	j, store := newTestJournal(t)

	ts := journal.Timestamp(time.Now())
	act := item.DeleteAction(item.DeleteAttrs{"attribute_0": item.NewValueSet("value_0", "value_1")})
	require.NoError(t, j.LogAction(ctx, "d", "i", ts, act))

	n, err := store.ListLength(ctx, "d:i")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	elements, err := store.ListRange(ctx, "d:i", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{ts}, elements)

	raw, err := store.Get(ctx, "d:i:"+ts)
	require.NoError(t, err)
	var decoded item.Action
	require.NoError(t, decoded.UnmarshalJSON([]byte(raw)))
	assert.Equal(t, item.KindDelete, decoded.Kind)
	assert.True(t, decoded.Delete["attribute_0"].Equal(item.NewValueSet("value_0", "value_1")))

	ttl, err := store.TTL(ctx, "d:i:"+ts)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

// Four journaled actions around the TTL horizon, replayed over three
// different baselines: replace, append, whole-attribute delete and
// value delete all compose in journal order.
func TestReplaySinceAppliesNewerActionsInOrder(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestJournal(t)

	horizon := time.Now().Add(-testTTL)
	entryOffsets := []time.Duration{-1 * time.Second, 2 * time.Second, 4 * time.Second, 6 * time.Second}
	actions := []item.Action{
		item.PutAction(item.PutAttrs{
			"c": {Values: item.NewValueSet("a", "b")},
			"d": {Values: item.NewValueSet("a", "b")},
		}),
		item.PutAction(item.PutAttrs{
			"a": {Values: item.NewValueSet("f", "d"), Replace: true},
			"e": {Values: item.NewValueSet("a", "b")},
			"f": {Values: item.NewValueSet("a", "b")},
		}),
		item.DeleteAction(item.DeleteAttrs{
			"e": item.NewValueSet(),
			"f": item.NewValueSet("a"),
		}),
		item.PutAction(item.PutAttrs{
			"e": {Values: item.NewValueSet("a")},
		}),
	}
	for i, offset := range entryOffsets {
		require.NoError(t, j.LogAction(ctx, "hd", "gi", journal.Timestamp(horizon.Add(offset)), actions[i]))
	}

	cases := []struct {
		baseline time.Duration
		base     item.Item
		want     item.Item
	}{
		{
			baseline: 1 * time.Second,
			base:     item.Item{"a": item.NewValueSet("a", "b")},
			want: item.Item{
				"a": item.NewValueSet("d", "f"),
				"e": item.NewValueSet("a"),
				"f": item.NewValueSet("b"),
			},
		},
		{
			baseline: 3 * time.Second,
			base:     item.Item{"f": item.NewValueSet("a")},
			want:     item.Item{"e": item.NewValueSet("a")},
		},
		{
			baseline: 5 * time.Second,
			base:     item.Item{"a": item.NewValueSet("a"), "e": item.NewValueSet("b")},
			want: item.Item{
				"a": item.NewValueSet("a"),
				"e": item.NewValueSet("a", "b"),
			},
		},
	}

	for _, tc := range cases {
		got := j.ReplaySince(ctx, "hd", "gi", journal.Timestamp(horizon.Add(tc.baseline)), tc.base)
		assert.True(t, got.Equal(tc.want), "baseline %v: got %v want %v", tc.baseline, got, tc.want)
	}
}

func TestReplaySinceRemovesExpiredListElements(t *testing.T) {
	ctx := context.Background()
	j, store := newTestJournal(t)

	horizon := time.Now().Add(-testTTL)
	offsets := []time.Duration{-10, -5, -1, 0, 1, 2, 3}
	act := item.DeleteAction(item.DeleteAttrs{"a": item.NewValueSet("a")})
	for _, offset := range offsets {
		ts := journal.Timestamp(horizon.Add(offset * time.Second))
		require.NoError(t, j.LogAction(ctx, "hd", "gi", ts, act))
	}

	j.ReplaySince(ctx, "hd", "gi", journal.Timestamp(time.Now()), item.Item{})

	// Entries at or past the TTL horizon are gone; offset 0 sits exactly
	// on it and expires too.
	n, err := store.ListLength(ctx, "hd:gi")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestReplaySinceBaselineIsStrict(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestJournal(t)

	at := time.Now().Add(-time.Second)
	ts := journal.Timestamp(at)
	require.NoError(t, j.LogAction(ctx, "d", "i", ts, item.PutAction(item.PutAttrs{
		"a": {Values: item.NewValueSet("1")},
	})))

	// Baseline equals the entry timestamp: not replayed.
	got := j.ReplaySince(ctx, "d", "i", ts, item.Item{})
	assert.Empty(t, got)

	// One microsecond earlier: replayed.
	got = j.ReplaySince(ctx, "d", "i", journal.Timestamp(at.Add(-time.Microsecond)), item.Item{})
	assert.True(t, got.Equal(item.Item{"a": item.NewValueSet("1")}))
}

func TestReplaySinceFreshBaselineIsIdentity(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestJournal(t)

	require.NoError(t, j.LogAction(ctx, "d", "i", journal.Timestamp(time.Now().Add(-time.Second)),
		item.PutAction(item.PutAttrs{"a": {Values: item.NewValueSet("1")}})))

	base := item.Item{"z": item.NewValueSet("9")}
	got := j.ReplaySince(ctx, "d", "i", journal.Timestamp(time.Now()), base)
	assert.True(t, got.Equal(base))
}

func TestReplaySinceSkipsEvictedLogEntry(t *testing.T) {
	ctx := context.Background()
	j, store := newTestJournal(t)

	// Timestamp listed but no log entry behind it, as after the log
	// entry expired under its listing: skipped silently.
	ts := journal.Timestamp(time.Now().Add(-time.Second))
	require.NoError(t, store.ListAppend(ctx, "d:i", ts))

	base := item.Item{"a": item.NewValueSet("1")}
	got := j.ReplaySince(ctx, "d", "i", journal.Timestamp(time.Now().Add(-time.Minute)), base)
	assert.True(t, got.Equal(base))
}

func TestReplaySinceSkipsUndecodableEntry(t *testing.T) {
	ctx := context.Background()
	j, store := newTestJournal(t)

	poison := journal.Timestamp(time.Now().Add(-2 * time.Second))
	require.NoError(t, store.SetWithTTL(ctx, "d:i:"+poison, "not json", testTTL))
	require.NoError(t, store.ListAppend(ctx, "d:i", poison))

	good := journal.Timestamp(time.Now().Add(-time.Second))
	require.NoError(t, j.LogAction(ctx, "d", "i", good, item.PutAction(item.PutAttrs{
		"a": {Values: item.NewValueSet("1")},
	})))

	got := j.ReplaySince(ctx, "d", "i", journal.Timestamp(time.Now().Add(-time.Minute)), item.Item{})
	assert.True(t, got.Equal(item.Item{"a": item.NewValueSet("1")}))
}

func TestReplaySinceDropsMalformedListTimestamps(t *testing.T) {
	ctx := context.Background()
	j, store := newTestJournal(t)

	require.NoError(t, store.ListAppend(ctx, "d:i", "garbage"))

	got := j.ReplaySince(ctx, "d", "i", journal.Timestamp(time.Now()), item.Item{})
	assert.Empty(t, got)

	n, err := store.ListLength(ctx, "d:i")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReplaySinceUnparseableBaseline(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestJournal(t)

	require.NoError(t, j.LogAction(ctx, "d", "i", journal.Timestamp(time.Now().Add(-time.Second)),
		item.PutAction(item.PutAttrs{"a": {Values: item.NewValueSet("1")}})))

	base := item.Item{"z": item.NewValueSet("9")}
	got := j.ReplaySince(ctx, "d", "i", "not-a-timestamp", base)
	assert.True(t, got.Equal(base))
}

func TestRandomCleanup(t *testing.T) {
	ctx := context.Background()
	j, store := newTestJournal(t)

	horizon := time.Now().Add(-testTTL)
	expired := []time.Duration{-10 * time.Second, -1 * time.Second, 0}
	live := []time.Duration{30 * time.Second, 60 * time.Second}
	for _, offset := range append(append([]time.Duration{}, expired...), live...) {
		require.NoError(t, store.ListAppend(ctx, "d:i", journal.Timestamp(horizon.Add(offset))))
	}

	removed, err := j.RandomCleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(expired), removed)

	n, err := store.ListLength(ctx, "d:i")
	require.NoError(t, err)
	assert.Equal(t, int64(len(live)), n)

	// Second sweep finds nothing left to remove.
	removed, err = j.RandomCleanup(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRandomCleanupEmptyStore(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestJournal(t)

	removed, err := j.RandomCleanup(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
