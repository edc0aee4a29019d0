// Package session layers read-your-writes and monotonic-reads semantics
// over an eventually consistent SimpleDB-style backing store, for all
// callers sharing one process instance.
//
// Every mutation additionally stamps the item with a reserved marker
// attribute `last_changed::<server_id>` carrying the mutation's
// timestamp, and records the action in a TTL-bounded journal. Reads
// fetch the item together with its marker, then replay every journaled
// action newer than the marker over the response, masking replicas that
// have not converged yet.
//
// Consistency is intra-process only: distinct server IDs write distinct
// markers and never observe each other's journals.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edirooss/sdbsession/pkg/item"
	"github.com/edirooss/sdbsession/pkg/journal"
	"github.com/edirooss/sdbsession/pkg/simpledb"
)

// BackingStore is the remote attribute store the engine consults. It is
// satisfied by *simpledb.Client.
type BackingStore interface {
	PutAttributes(ctx context.Context, domain, itemName string, attrs item.PutAttrs) error
	BatchPutAttributes(ctx context.Context, domain string, items map[string]item.PutAttrs) error
	DeleteAttributes(ctx context.Context, domain, itemName string, attrs item.DeleteAttrs) error
	GetAttributes(ctx context.Context, domain, itemName string, projection []string) (item.Item, error)
	Select(ctx context.Context, projection, domain, where, orderBy string, limit int) ([]simpledb.Row, error)

	CreateDomain(ctx context.Context, name string) error
	DeleteDomain(ctx context.Context, name string) error
	ListDomains(ctx context.Context) ([]string, error)
	HasDomain(ctx context.Context, name string) (bool, error)
	GetDomainMetadata(ctx context.Context, name string) (simpledb.DomainMetadata, error)
}

// Config carries the engine settings.
type Config struct {
	// ServerID names this process's marker attribute. It must be unique
	// per running process instance: two processes sharing a ServerID
	// would corrupt each other's read baselines.
	ServerID string
	// JournalTTL is the freshness window. Zero falls back to the
	// journal's default.
	JournalTTL time.Duration
	// RandomJournalCleans is how many random cleanup sweeps to run at
	// startup.
	RandomJournalCleans int
}

// Engine is the session consistency layer. Safe for concurrent use.
type Engine struct {
	log     *zap.Logger
	store   BackingStore
	journal *journal.Journal
	marker  string

	now func() time.Time
}

// New builds an Engine and runs the configured startup cleanup sweeps.
func New(ctx context.Context, log *zap.Logger, cfg Config, store BackingStore, jstore journal.Store) (*Engine, error) {
	if cfg.ServerID == "" {
		return nil, errors.New("session: server ID is required")
	}
	if store == nil {
		return nil, errors.New("session: nil backing store")
	}
	if jstore == nil {
		return nil, errors.New("session: nil journal store")
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("session")

	e := &Engine{
		log:     log,
		store:   store,
		journal: journal.New(log, jstore, cfg.JournalTTL),
		marker:  item.ReservedAttrPrefix + cfg.ServerID,
		now:     time.Now,
	}

	for i := 0; i < cfg.RandomJournalCleans; i++ {
		if _, err := e.journal.RandomCleanup(ctx); err != nil {
			log.Warn("startup journal cleanup failed", zap.Error(err))
			break
		}
	}

	return e, nil
}

// Journal exposes the engine's journal, mainly so operators can run
// cleanup sweeps on demand.
func (e *Engine) Journal() *journal.Journal { return e.journal }

// markerPut is the marker stamp joined to every mutation.
func (e *Engine) markerPut(ts string) item.PutAttr {
	return item.PutAttr{Values: item.NewValueSet(ts), Replace: true}
}

// logAction appends to the journal after a successful remote mutation.
// Journal trouble is not the caller's problem: the mutation is durable
// remotely, so the failure only narrows the freshness window.
func (e *Engine) logAction(ctx context.Context, domain, itemName, ts string, act item.Action) {
	if err := e.journal.LogAction(ctx, domain, itemName, ts, act); err != nil {
		e.log.Warn("journal write failed; read-your-writes degraded until the store converges",
			zap.String("domain", domain),
			zap.String("item", itemName),
			zap.String("timestamp", ts),
			zap.Error(err),
		)
	}
}

// validatePutRecords rejects malformed payloads before any remote call.
func validatePutRecords(records map[string]map[string]item.PutAttrs) error {
	for domain, items := range records {
		for itemName, attrs := range items {
			if err := attrs.Validate(); err != nil {
				return fmt.Errorf("%s/%s: %w", domain, itemName, err)
			}
		}
	}
	return nil
}

// validateDeleteRecords rejects malformed payloads before any remote call.
func validateDeleteRecords(records map[string]map[string]item.DeleteAttrs) error {
	for domain, items := range records {
		for itemName, attrs := range items {
			if err := attrs.Validate(); err != nil {
				return fmt.Errorf("%s/%s: %w", domain, itemName, err)
			}
		}
	}
	return nil
}
