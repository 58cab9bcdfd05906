package plaid

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/pkg/portfolio"
	"networth-api/pkg/provider"
)

func init() {
	provider.RegisterBuilder("plaid", func(name string, cfg *provider.SourceConfig, deps provider.Deps) (provider.Provider, error) {
		if cfg.ClientID == "" || cfg.Secret == "" {
			return nil, fmt.Errorf("plaid: client_id and secret are required")
		}
		if deps.LinkStore == nil {
			return nil, fmt.Errorf("plaid: link store is required")
		}
		opts := []ClientOption{WithBaseURL(cfg.BaseURL)}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithHTTPTimeout(cfg.HTTPTimeout))
		}
		return NewProvider(name, NewClient(cfg.ClientID, cfg.Secret, opts...), deps.LinkStore), nil
	})
}

// Provider serves brokerage holdings through Plaid Investments. Each stored
// link item is one container; positions inside it are keyed by the brokerage
// account they sit in.
type Provider struct {
	source string
	client *Client
	store  provider.LinkStore
}

// NewProvider wraps a Plaid client and link-item store as a holdings source.
func NewProvider(source string, client *Client, store provider.LinkStore) *Provider {
	return &Provider{source: source, client: client, store: store}
}

func (p *Provider) Source() string { return p.source }

// Client exposes the underlying Plaid client for the link token flow.
func (p *Provider) Client() *Client { return p.client }

// Store exposes the link-item store for the link token flow.
func (p *Provider) Store() provider.LinkStore { return p.store }

// ListContainers returns one container per linked item.
func (p *Provider) ListContainers(ctx context.Context) ([]portfolio.ContainerRef, error) {
	items, err := p.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("plaid: list link items: %w", err)
	}
	refs := make([]portfolio.ContainerRef, 0, len(items))
	for _, item := range items {
		name := item.InstitutionName
		if name == "" {
			name = item.ContainerID
		}
		refs = append(refs, portfolio.ContainerRef{
			Source:      p.source,
			ContainerID: item.ContainerID,
			Name:        name,
		})
	}
	return refs, nil
}

func (p *Provider) ListAccounts(ctx context.Context, containerID string) ([]portfolio.AccountRef, error) {
	item, err := p.store.Find(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("plaid: find link item %s: %w", containerID, err)
	}
	if item == nil {
		return nil, nil
	}

	data, err := p.client.GetInvestmentHoldings(ctx, item.AccessToken)
	if err != nil {
		return nil, err
	}

	refs := make([]portfolio.AccountRef, 0, len(data.Accounts))
	for _, account := range data.Accounts {
		if account.AccountID == "" {
			continue
		}
		name := account.Name
		if name == "" {
			name = account.OfficialName
		}
		refs = append(refs, portfolio.AccountRef{
			Source:      p.source,
			ContainerID: containerID,
			AccountID:   account.AccountID,
			Name:        name,
		})
	}
	return refs, nil
}

// GetHoldings maps Plaid investment positions to holdings. Assets are keyed
// by ticker symbol, falling back to the security id; such positions are still
// valued through the institution's own price, carried as a hint.
func (p *Provider) GetHoldings(ctx context.Context, containerID string) ([]portfolio.Holding, error) {
	item, err := p.store.Find(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("plaid: find link item %s: %w", containerID, err)
	}
	if item == nil {
		return nil, nil
	}

	data, err := p.client.GetInvestmentHoldings(ctx, item.AccessToken)
	if err != nil {
		return nil, err
	}

	securities := make(map[string]Security, len(data.Securities))
	for _, sec := range data.Securities {
		if sec.SecurityID != "" {
			securities[sec.SecurityID] = sec
		}
	}

	holdings := make([]portfolio.Holding, 0, len(data.Holdings))
	for _, h := range data.Holdings {
		if h.AccountID == "" || h.SecurityID == "" {
			logx.WithContext(ctx).Errorf("plaid: container %s: position missing account or security id", containerID)
			continue
		}

		sec := securities[h.SecurityID]
		asset := strings.ToUpper(strings.TrimSpace(sec.TickerSymbol))
		if asset == "" {
			asset = strings.ToUpper(h.SecurityID)
		}

		quantity := decimal.NewFromFloat(h.Quantity)
		if quantity.IsNegative() {
			logx.WithContext(ctx).Errorf("plaid: container %s: negative quantity for %s, skipping", containerID, asset)
			continue
		}

		holdings = append(holdings, portfolio.Holding{
			Source:        p.source,
			ContainerID:   containerID,
			AccountID:     h.AccountID,
			Asset:         asset,
			Quantity:      quantity,
			UnitPriceHint: positionPrice(h, sec),
		})
	}
	return holdings, nil
}

// positionPrice picks the best institution-reported unit price: the holding's
// own price, then value divided by quantity, then the security close price.
func positionPrice(h InvestmentHolding, sec Security) *decimal.Decimal {
	if h.InstitutionPrice != nil {
		price := decimal.NewFromFloat(*h.InstitutionPrice)
		return &price
	}
	if h.InstitutionValue != nil && h.Quantity > 0 {
		price := decimal.NewFromFloat(*h.InstitutionValue).Div(decimal.NewFromFloat(h.Quantity))
		return &price
	}
	if sec.ClosePrice != nil {
		price := decimal.NewFromFloat(*sec.ClosePrice)
		return &price
	}
	return nil
}
