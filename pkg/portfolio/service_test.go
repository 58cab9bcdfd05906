package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is an in-memory holdings provider with scriptable failures.
type stubSource struct {
	source       string
	containers   []ContainerRef
	accounts     map[string][]AccountRef
	holdings     map[string][]Holding
	listErr      error
	holdingsErrs map[string]error
}

func (s *stubSource) Source() string { return s.source }

func (s *stubSource) ListContainers(context.Context) ([]ContainerRef, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.containers, nil
}

func (s *stubSource) ListAccounts(_ context.Context, containerID string) ([]AccountRef, error) {
	return s.accounts[containerID], nil
}

func (s *stubSource) GetHoldings(_ context.Context, containerID string) ([]Holding, error) {
	if err := s.holdingsErrs[containerID]; err != nil {
		return nil, err
	}
	return s.holdings[containerID], nil
}

func singleContainerSource(source, containerID string, holdings ...Holding) *stubSource {
	return &stubSource{
		source:     source,
		containers: []ContainerRef{{Source: source, ContainerID: containerID, Name: containerID}},
		holdings:   map[string][]Holding{containerID: holdings},
	}
}

func newTestService(providers []HoldingsProvider, prices map[string]decimal.Decimal, ignored ...string) *Service {
	resolver := NewResolver(&stubPriceProvider{prices: prices}, "USD", []string{"USDC"})
	return NewService(providers, resolver, ignored)
}

func TestServiceSnapshot(t *testing.T) {
	providers := []HoldingsProvider{
		singleContainerSource("coinbase", "coinbase",
			Holding{Source: "coinbase", ContainerID: "coinbase", AccountID: "A1", Asset: "BTC", Quantity: dec("2")},
			Holding{Source: "coinbase", ContainerID: "coinbase", AccountID: "A2", Asset: "USD", Quantity: dec("100")},
		),
		singleContainerSource("coldstorage", "trezor",
			Holding{Source: "coldstorage", ContainerID: "trezor", Asset: "BTC", Quantity: dec("1")},
		),
	}
	svc := newTestService(providers, map[string]decimal.Decimal{"BTC": dec("30000")})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "", snap.ID.String())
	assert.False(t, snap.AsOf.IsZero())
	assert.Equal(t, "USD", snap.Currency)
	assert.Empty(t, snap.Warnings)

	require.Len(t, snap.ByAsset, 2)
	btc := snap.ByAsset[0]
	assert.Equal(t, "BTC", btc.Asset)
	assert.True(t, btc.Quantity.Equal(dec("3")))
	require.NotNil(t, btc.MarketValue)
	assert.True(t, btc.MarketValue.Equal(dec("90000")))
	require.Len(t, btc.Contributors, 2)

	assert.True(t, snap.CashValue.Equal(dec("100")))
	assert.True(t, snap.TotalValue.Equal(dec("90100")))
	require.Len(t, snap.ByContainer, 2)
}

func TestServicePartialFailure(t *testing.T) {
	healthy := singleContainerSource("coldstorage", "trezor",
		Holding{Source: "coldstorage", ContainerID: "trezor", Asset: "BTC", Quantity: dec("1")},
	)
	broken := &stubSource{source: "coinbase", listErr: errors.New("api timeout")}

	svc := newTestService([]HoldingsProvider{broken, healthy}, map[string]decimal.Decimal{"BTC": dec("30000")})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.TotalValue.Equal(dec("30000")))
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, "coinbase", snap.Warnings[0].Source)
	assert.Contains(t, snap.Warnings[0].Reason, "source unavailable")
}

func TestServiceAllSourcesFailed(t *testing.T) {
	svc := newTestService([]HoldingsProvider{
		&stubSource{source: "coinbase", listErr: errors.New("api timeout")},
		&stubSource{source: "schwab", listErr: errors.New("token expired")},
	}, nil)

	snap, err := svc.Snapshot(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrAllSourcesFailed)
}

func TestServiceNoProviders(t *testing.T) {
	svc := newTestService(nil, nil)
	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrAllSourcesFailed)
}

func TestServiceInvalidHoldingDropsContainer(t *testing.T) {
	defective := &stubSource{
		source: "schwab",
		containers: []ContainerRef{
			{Source: "schwab", ContainerID: "good"},
			{Source: "schwab", ContainerID: "bad"},
		},
		holdings: map[string][]Holding{
			"good": {{Source: "schwab", ContainerID: "good", Asset: "VOO", Quantity: dec("3")}},
			"bad":  {{Source: "schwab", ContainerID: "bad", Asset: "VOO", Quantity: dec("-1")}},
		},
	}
	svc := newTestService([]HoldingsProvider{defective}, map[string]decimal.Decimal{"VOO": dec("400")})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.TotalValue.Equal(dec("1200")), "good container still contributes")
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, "bad", snap.Warnings[0].ContainerID)
	assert.Contains(t, snap.Warnings[0].Reason, "invalid holding")
	require.Len(t, snap.ByContainer, 1, "defective container is excluded entirely")
}

func TestServiceContainerFetchFailureIsPartial(t *testing.T) {
	src := &stubSource{
		source: "coinbase",
		containers: []ContainerRef{
			{Source: "coinbase", ContainerID: "main"},
			{Source: "coinbase", ContainerID: "flaky"},
		},
		holdings: map[string][]Holding{
			"main": {{Source: "coinbase", ContainerID: "main", Asset: "BTC", Quantity: dec("1")}},
		},
		holdingsErrs: map[string]error{"flaky": errors.New("rate limited")},
	}
	svc := newTestService([]HoldingsProvider{src}, map[string]decimal.Decimal{"BTC": dec("30000")})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.TotalValue.Equal(dec("30000")))
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, "flaky", snap.Warnings[0].ContainerID)
}

func TestServiceAccountNamesAnnotateRollup(t *testing.T) {
	src := singleContainerSource("coinbase", "coinbase",
		Holding{Source: "coinbase", ContainerID: "coinbase", AccountID: "acct-1", Asset: "BTC", Quantity: dec("1")},
	)
	src.accounts = map[string][]AccountRef{
		"coinbase": {{Source: "coinbase", ContainerID: "coinbase", AccountID: "acct-1", Name: "BTC Wallet"}},
	}
	svc := newTestService([]HoldingsProvider{src}, map[string]decimal.Decimal{"BTC": dec("30000")})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.ByAccount, 1)
	assert.Equal(t, "BTC Wallet", snap.ByAccount[0].Name)
}

func TestServiceContainerHoldings(t *testing.T) {
	src := singleContainerSource("coldstorage", "trezor",
		Holding{Source: "coldstorage", ContainerID: "trezor", Asset: "BTC", Quantity: dec("2")},
		Holding{Source: "coldstorage", ContainerID: "trezor", Asset: "XYZ", Quantity: dec("5")},
	)
	svc := newTestService([]HoldingsProvider{src}, map[string]decimal.Decimal{"BTC": dec("30000")})

	ch, err := svc.ContainerHoldings(context.Background(), "coldstorage", "trezor", "")
	require.NoError(t, err)
	assert.Equal(t, "trezor", ch.ContainerID)
	assert.True(t, ch.TotalValue.Equal(dec("60000")))
	require.Len(t, ch.Holdings, 2)
	assert.Equal(t, []string{"XYZ"}, ch.MissingPrices)

	_, err = svc.ContainerHoldings(context.Background(), "coldstorage", "nope", "")
	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestServiceContainerHoldingsAccountFilter(t *testing.T) {
	src := singleContainerSource("coinbase", "coinbase",
		Holding{Source: "coinbase", ContainerID: "coinbase", AccountID: "A1", Asset: "BTC", Quantity: dec("1")},
		Holding{Source: "coinbase", ContainerID: "coinbase", AccountID: "A2", Asset: "ETH", Quantity: dec("4")},
	)
	svc := newTestService([]HoldingsProvider{src}, map[string]decimal.Decimal{
		"BTC": dec("30000"), "ETH": dec("2000"),
	})

	ch, err := svc.ContainerHoldings(context.Background(), "coinbase", "coinbase", "A2")
	require.NoError(t, err)
	require.Len(t, ch.Holdings, 1)
	assert.Equal(t, "ETH", ch.Holdings[0].Asset)
	assert.True(t, ch.TotalValue.Equal(dec("8000")))
}

func TestServiceAccounts(t *testing.T) {
	src := singleContainerSource("coinbase", "coinbase")
	src.accounts = map[string][]AccountRef{
		"coinbase": {{Source: "coinbase", ContainerID: "coinbase", AccountID: "acct-1"}},
	}
	svc := newTestService([]HoldingsProvider{src}, nil)

	refs, err := svc.Accounts(context.Background(), "coinbase", "coinbase")
	require.NoError(t, err)
	require.Len(t, refs, 1)

	_, err = svc.Accounts(context.Background(), "kraken", "x")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
