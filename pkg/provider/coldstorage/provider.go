package coldstorage

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"networth-api/pkg/portfolio"
	"networth-api/pkg/provider"
)

func init() {
	provider.RegisterBuilder("coldstorage", func(name string, cfg *provider.SourceConfig, _ provider.Deps) (provider.Provider, error) {
		if cfg.Path == "" {
			return nil, fmt.Errorf("coldstorage: path is required")
		}
		opts := []Option{}
		if cfg.EthRPCURL != "" {
			client, err := ethclient.Dial(cfg.EthRPCURL)
			if err != nil {
				return nil, fmt.Errorf("coldstorage: dial eth rpc: %w", err)
			}
			opts = append(opts, WithBalanceReader(client))
		}
		return NewProvider(name, cfg.Path, opts...), nil
	})
}

// Provider serves cold-storage devices as containers. The file is re-read on
// every request so edits show up without a restart.
type Provider struct {
	source string
	path   string
	reader BalanceReader
}

// Option customises the provider.
type Option func(*Provider)

// WithBalanceReader enables on-chain ETH lookups for watch addresses.
func WithBalanceReader(reader BalanceReader) Option {
	return func(p *Provider) { p.reader = reader }
}

// NewProvider builds a cold-storage provider over the given holdings file.
func NewProvider(source, path string, opts ...Option) *Provider {
	p := &Provider{source: source, path: path}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Source returns the configured source name.
func (p *Provider) Source() string { return p.source }

// ListContainers exposes one container per device.
func (p *Provider) ListContainers(context.Context) ([]portfolio.ContainerRef, error) {
	devices, err := LoadDevices(p.path)
	if err != nil {
		return nil, err
	}
	refs := make([]portfolio.ContainerRef, 0, len(devices))
	for _, d := range devices {
		refs = append(refs, portfolio.ContainerRef{Source: p.source, ContainerID: d.Name, Name: d.Name})
	}
	return refs, nil
}

// ListAccounts returns no accounts; devices have no sub-accounts.
func (p *Provider) ListAccounts(context.Context, string) ([]portfolio.AccountRef, error) {
	return nil, nil
}

// GetHoldings returns the device's file holdings plus on-chain balances for
// its watch addresses. Watch addresses without a configured balance reader
// are skipped; a failing balance lookup fails the whole container so stale
// zero balances are never reported as fact.
func (p *Provider) GetHoldings(ctx context.Context, containerID string) ([]portfolio.Holding, error) {
	devices, err := LoadDevices(p.path)
	if err != nil {
		return nil, err
	}

	var device *Device
	for i := range devices {
		if devices[i].Name == containerID {
			device = &devices[i]
			break
		}
	}
	if device == nil {
		return nil, nil
	}

	holdings := make([]portfolio.Holding, 0, len(device.Holdings)+1)
	for asset, quantity := range device.Holdings {
		holdings = append(holdings, portfolio.Holding{
			Source:      p.source,
			ContainerID: device.Name,
			Asset:       asset,
			Quantity:    quantity,
		})
	}

	if p.reader != nil && len(device.WatchAddresses) > 0 {
		total := decimal.Zero
		for _, address := range device.WatchAddresses {
			balance, err := ethBalance(ctx, p.reader, address)
			if err != nil {
				return nil, err
			}
			total = total.Add(balance)
		}
		holdings = append(holdings, portfolio.Holding{
			Source:      p.source,
			ContainerID: device.Name,
			Asset:       "ETH",
			Quantity:    total,
		})
	}

	return holdings, nil
}
