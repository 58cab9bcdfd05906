// Package provider wires the configured holdings sources (exchanges,
// cold-storage wallets, brokerage aggregators). Source implementations
// register themselves by type name and are instantiated from a YAML config
// file into the fixed provider set the snapshot service iterates over.
package provider

import (
	"context"
	"time"

	"networth-api/pkg/portfolio"
)

// Provider is one configured holdings source.
type Provider = portfolio.HoldingsProvider

// LinkItem is a stored credential for an aggregator-linked container
// (e.g. a Plaid access token for a brokerage).
type LinkItem struct {
	ContainerID     string
	AccessToken     string
	ItemID          string
	InstitutionName string
	CreatedAt       time.Time
}

// LinkStore persists link items. Implementations live outside this package
// (the service wires a Postgres-backed store).
type LinkStore interface {
	Save(ctx context.Context, item LinkItem) error
	Find(ctx context.Context, containerID string) (*LinkItem, error)
	Delete(ctx context.Context, containerID string) (bool, error)
	List(ctx context.Context) ([]LinkItem, error)
}

// Deps carries shared collaborators a provider builder may need.
type Deps struct {
	LinkStore LinkStore
}
