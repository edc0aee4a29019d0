package session

import (
	"context"

	"github.com/edirooss/sdbsession/pkg/simpledb"
)

// Domain administration passes straight through to the backing store;
// the consistency layer has no say in domain lifecycle.

func (e *Engine) CreateDomain(ctx context.Context, name string) error {
	return e.store.CreateDomain(ctx, name)
}

func (e *Engine) DeleteDomain(ctx context.Context, name string) error {
	return e.store.DeleteDomain(ctx, name)
}

func (e *Engine) ListDomains(ctx context.Context) ([]string, error) {
	return e.store.ListDomains(ctx)
}

func (e *Engine) HasDomain(ctx context.Context, name string) (bool, error) {
	return e.store.HasDomain(ctx, name)
}

func (e *Engine) GetDomainMetadata(ctx context.Context, name string) (simpledb.DomainMetadata, error) {
	return e.store.GetDomainMetadata(ctx, name)
}
