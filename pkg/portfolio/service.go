package portfolio

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

// Service drives the snapshot build: concurrent fan-out over the registered
// source providers, price resolution, valuation and aggregation. It holds no
// mutable state between requests.
type Service struct {
	providers []HoldingsProvider
	resolver  *Resolver
	ignored   map[string]struct{}
}

// NewService wires the fixed provider set with a price resolver and the
// configured missing-price ignore list.
func NewService(providers []HoldingsProvider, resolver *Resolver, ignoredAssets []string) *Service {
	ignored := make(map[string]struct{}, len(ignoredAssets))
	for _, a := range ignoredAssets {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a != "" {
			ignored[a] = struct{}{}
		}
	}
	return &Service{providers: providers, resolver: resolver, ignored: ignored}
}

// sourceResult carries one provider's fetch outcome through the fan-in.
type sourceResult struct {
	source       string
	containers   []ContainerRef
	accountNames map[AccountKey]string
	holdings     []Holding
	warnings     []SourceWarning
	failed       bool
}

type collected struct {
	holdings     []Holding
	containers   []ContainerRef
	accountNames map[AccountKey]string
	warnings     []SourceWarning
}

// Snapshot builds a fresh snapshot across all providers. Per-source failures
// degrade to warnings; only when every source fails does the request fail
// with ErrAllSourcesFailed.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	col, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	assets := make([]string, 0, len(col.holdings))
	for _, h := range col.holdings {
		assets = append(assets, h.Asset)
	}
	prices := s.resolver.Resolve(ctx, assets)
	valued := Value(col.holdings, prices)

	snapshot := Aggregate(valued, Options{
		Currency:     s.resolver.Currency(),
		Ignored:      s.ignored,
		IsCash:       s.resolver.IsCash,
		Containers:   col.containers,
		AccountNames: col.accountNames,
	})
	snapshot.ID = uuid.New()
	snapshot.AsOf = time.Now().UTC()
	snapshot.Warnings = col.warnings
	return snapshot, nil
}

// Containers returns the per-container summaries of a fresh snapshot.
func (s *Service) Containers(ctx context.Context) ([]ContainerRollup, []SourceWarning, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snapshot.ByContainer, snapshot.Warnings, nil
}

// Accounts enumerates sub-accounts for one container by asking its provider
// directly; no valuation is involved.
func (s *Service) Accounts(ctx context.Context, source, containerID string) ([]AccountRef, error) {
	p := s.provider(source)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
	return p.ListAccounts(ctx, containerID)
}

// ContainerHoldings values one container and returns its holdings lines,
// optionally filtered to a single sub-account.
func (s *Service) ContainerHoldings(ctx context.Context, source, containerID, accountID string) (*ContainerHoldings, error) {
	col, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	var ref *ContainerRef
	for i := range col.containers {
		c := &col.containers[i]
		if c.Source == source && c.ContainerID == containerID {
			ref = c
			break
		}
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrContainerNotFound, source, containerID)
	}

	assets := make([]string, 0, len(col.holdings))
	scoped := make([]Holding, 0, len(col.holdings))
	for _, h := range col.holdings {
		if h.Source != source || h.ContainerID != containerID {
			continue
		}
		if accountID != "" && h.AccountID != accountID {
			continue
		}
		scoped = append(scoped, h)
		assets = append(assets, h.Asset)
	}

	prices := s.resolver.Resolve(ctx, assets)
	valued := Value(scoped, prices)

	out := &ContainerHoldings{
		Source:      source,
		ContainerID: containerID,
		AccountID:   accountID,
		Name:        ref.Name,
		AsOf:        time.Now().UTC(),
		Currency:    s.resolver.Currency(),
		TotalValue:  decimal.Zero,
	}
	missing := make(map[string]struct{})
	for _, v := range valued {
		out.Holdings = append(out.Holdings, HoldingLine{
			Asset:       v.Asset,
			AccountID:   v.AccountID,
			Quantity:    v.Quantity,
			UnitPrice:   v.UnitPrice,
			MarketValue: v.MarketValue,
		})
		if v.MarketValue != nil {
			out.TotalValue = out.TotalValue.Add(*v.MarketValue)
		} else if v.Quantity.IsPositive() {
			if _, ignored := s.ignored[v.Asset]; !ignored {
				missing[v.Asset] = struct{}{}
			}
		}
	}
	sort.Slice(out.Holdings, func(i, j int) bool {
		a, b := out.Holdings[i], out.Holdings[j]
		if a.Asset != b.Asset {
			return a.Asset < b.Asset
		}
		return a.AccountID < b.AccountID
	})
	for asset := range missing {
		out.MissingPrices = append(out.MissingPrices, asset)
	}
	sort.Strings(out.MissingPrices)
	return out, nil
}

func (s *Service) provider(source string) HoldingsProvider {
	for _, p := range s.providers {
		if p.Source() == source {
			return p
		}
	}
	return nil
}

// collect fans out over all providers concurrently and fans the results back
// in. Results are merged in provider registration order so the downstream
// valuation sees deterministic input regardless of completion order.
func (s *Service) collect(ctx context.Context) (*collected, error) {
	if len(s.providers) == 0 {
		return nil, ErrAllSourcesFailed
	}

	results, err := mr.MapReduce(func(source chan<- HoldingsProvider) {
		for _, p := range s.providers {
			source <- p
		}
	}, func(p HoldingsProvider, writer mr.Writer[sourceResult], cancel func(error)) {
		writer.Write(s.fetchSource(ctx, p))
	}, func(pipe <-chan sourceResult, writer mr.Writer[map[string]sourceResult], cancel func(error)) {
		merged := make(map[string]sourceResult, len(s.providers))
		for r := range pipe {
			merged[r.source] = r
		}
		writer.Write(merged)
	}, mr.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("portfolio: source fan-out: %w", err)
	}

	col := &collected{accountNames: make(map[AccountKey]string)}
	failures := 0
	for _, p := range s.providers {
		r, ok := results[p.Source()]
		if !ok {
			continue
		}
		if r.failed {
			failures++
		}
		col.holdings = append(col.holdings, r.holdings...)
		col.containers = append(col.containers, r.containers...)
		col.warnings = append(col.warnings, r.warnings...)
		for key, name := range r.accountNames {
			col.accountNames[key] = name
		}
	}
	if failures == len(s.providers) {
		return nil, ErrAllSourcesFailed
	}
	return col, nil
}

// fetchSource gathers one provider's containers, account names and holdings.
// A failing container is dropped with a warning; the provider counts as
// failed only when it yields nothing at all.
func (s *Service) fetchSource(ctx context.Context, p HoldingsProvider) sourceResult {
	result := sourceResult{
		source:       p.Source(),
		accountNames: make(map[AccountKey]string),
	}

	containers, err := p.ListContainers(ctx)
	if err != nil {
		logx.WithContext(ctx).Errorf("portfolio: list containers source=%s err=%v", p.Source(), err)
		result.failed = true
		result.warnings = append(result.warnings, SourceWarning{
			Source: p.Source(),
			Reason: fmt.Sprintf("source unavailable: %v", err),
		})
		return result
	}

	containerFailures := 0
	for _, container := range containers {
		// Account discovery is best-effort name annotation only.
		if accounts, err := p.ListAccounts(ctx, container.ContainerID); err == nil {
			for _, a := range accounts {
				key := AccountKey{Source: a.Source, ContainerID: a.ContainerID, AccountID: a.AccountID}
				result.accountNames[key] = a.Name
			}
		}

		holdings, err := p.GetHoldings(ctx, container.ContainerID)
		if err != nil {
			logx.WithContext(ctx).Errorf("portfolio: get holdings source=%s container=%s err=%v",
				p.Source(), container.ContainerID, err)
			containerFailures++
			result.warnings = append(result.warnings, SourceWarning{
				Source:      p.Source(),
				ContainerID: container.ContainerID,
				Reason:      fmt.Sprintf("source unavailable: %v", err),
			})
			continue
		}

		normalized := make([]Holding, 0, len(holdings))
		invalid := false
		for _, h := range holdings {
			h = h.Normalize()
			if err := h.Validate(); err != nil {
				logx.WithContext(ctx).Errorf("portfolio: dropping container %s/%s: %v",
					p.Source(), container.ContainerID, err)
				result.warnings = append(result.warnings, SourceWarning{
					Source:      p.Source(),
					ContainerID: container.ContainerID,
					Reason:      err.Error(),
				})
				invalid = true
				break
			}
			normalized = append(normalized, h)
		}
		if invalid {
			containerFailures++
			continue
		}

		result.containers = append(result.containers, container)
		result.holdings = append(result.holdings, normalized...)
	}

	if len(containers) > 0 && containerFailures == len(containers) {
		result.failed = true
	}
	return result
}
