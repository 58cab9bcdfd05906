package coinbase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/pkg/portfolio"
	"networth-api/pkg/provider"
)

func init() {
	provider.RegisterBuilder("coinbase", func(name string, cfg *provider.SourceConfig, _ provider.Deps) (provider.Provider, error) {
		signer, err := NewSigner(cfg.APIKey, cfg.APISecret)
		if err != nil {
			return nil, err
		}
		opts := []ClientOption{WithBaseURL(cfg.BaseURL)}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithHTTPTimeout(cfg.HTTPTimeout))
		}
		containerID := cfg.ContainerID
		if containerID == "" {
			containerID = name
		}
		return NewProvider(name, containerID, NewClient(signer, opts...)), nil
	})
}

// Provider exposes one Coinbase brokerage as a single container whose
// accounts are the per-currency wallets.
type Provider struct {
	source      string
	containerID string
	client      *Client
}

// NewProvider wraps an Advanced Trade client as a holdings source.
func NewProvider(source, containerID string, client *Client) *Provider {
	return &Provider{source: source, containerID: containerID, client: client}
}

func (p *Provider) Source() string { return p.source }

func (p *Provider) ListContainers(context.Context) ([]portfolio.ContainerRef, error) {
	return []portfolio.ContainerRef{{
		Source:      p.source,
		ContainerID: p.containerID,
		Name:        "Coinbase",
	}}, nil
}

// ListAccounts maps every Coinbase account (one per currency) to an
// AccountRef keyed by its UUID.
func (p *Provider) ListAccounts(ctx context.Context, containerID string) ([]portfolio.AccountRef, error) {
	if containerID != p.containerID {
		return nil, nil
	}
	accounts, err := p.client.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]portfolio.AccountRef, 0, len(accounts))
	for _, account := range accounts {
		name := account.Name
		if name == "" {
			name = account.Currency
		}
		refs = append(refs, portfolio.AccountRef{
			Source:      p.source,
			ContainerID: p.containerID,
			AccountID:   account.UUID,
			Name:        name,
		})
	}
	return refs, nil
}

// GetHoldings reports each account's total balance, available plus hold.
// Accounts whose balances fail to parse are skipped rather than failing the
// whole container.
func (p *Provider) GetHoldings(ctx context.Context, containerID string) ([]portfolio.Holding, error) {
	if containerID != p.containerID {
		return nil, nil
	}
	accounts, err := p.client.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	holdings := make([]portfolio.Holding, 0, len(accounts))
	for _, account := range accounts {
		quantity, err := accountQuantity(account)
		if err != nil {
			logx.WithContext(ctx).Errorf("coinbase: account %s (%s): %v", account.UUID, account.Currency, err)
			continue
		}
		if quantity.IsZero() {
			continue
		}
		holdings = append(holdings, portfolio.Holding{
			Source:      p.source,
			ContainerID: p.containerID,
			AccountID:   account.UUID,
			Asset:       account.Currency,
			Quantity:    quantity,
		})
	}
	return holdings, nil
}

func accountQuantity(account Account) (decimal.Decimal, error) {
	available, err := decimal.NewFromString(account.AvailableBalance.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse available balance %q: %w", account.AvailableBalance.Value, err)
	}
	hold := decimal.Zero
	if account.Hold.Value != "" {
		hold, err = decimal.NewFromString(account.Hold.Value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse hold %q: %w", account.Hold.Value, err)
		}
	}
	return available.Add(hold), nil
}
