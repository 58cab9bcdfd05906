package portfolio

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usdCash(asset string) bool { return asset == "USD" || asset == "USDC" }

func valueAll(t *testing.T, holdings []Holding, prices map[string]decimal.Decimal) []ValuedHolding {
	t.Helper()
	normalized := make([]Holding, 0, len(holdings))
	for _, h := range holdings {
		h = h.Normalize()
		require.NoError(t, h.Validate())
		normalized = append(normalized, h)
	}
	return Value(normalized, prices)
}

func TestAggregateMergesAssetAcrossContainers(t *testing.T) {
	holdings := []Holding{
		{Source: "coinbase", ContainerID: "A", AccountID: "A1", Asset: "BTC", Quantity: dec("2")},
		{Source: "coldstorage", ContainerID: "B", AccountID: "B1", Asset: "BTC", Quantity: dec("1")},
	}
	prices := map[string]decimal.Decimal{"BTC": dec("30000")}

	snap := Aggregate(valueAll(t, holdings, prices), Options{Currency: "USD", IsCash: usdCash})

	require.Len(t, snap.ByAsset, 1)
	btc := snap.ByAsset[0]
	assert.Equal(t, "BTC", btc.Asset)
	assert.True(t, btc.Quantity.Equal(dec("3")))
	require.NotNil(t, btc.MarketValue)
	assert.True(t, btc.MarketValue.Equal(dec("90000")))
	require.Len(t, btc.Contributors, 2)
	assert.Equal(t, "A", btc.Contributors[0].ContainerID)
	assert.Equal(t, "A1", btc.Contributors[0].AccountID)
	assert.Equal(t, "B", btc.Contributors[1].ContainerID)

	assert.True(t, snap.TotalValue.Equal(dec("90000")))
	assert.True(t, snap.PositionsValue.Equal(dec("90000")))
	assert.True(t, snap.CashValue.IsZero())
}

func TestAggregateMissingPrices(t *testing.T) {
	holdings := []Holding{
		{Source: "coldstorage", ContainerID: "C", Asset: "XYZ", Quantity: dec("5")},
		{Source: "coinbase", ContainerID: "A", AccountID: "A1", Asset: "BTC", Quantity: dec("1")},
	}
	prices := map[string]decimal.Decimal{"BTC": dec("30000")}

	snap := Aggregate(valueAll(t, holdings, prices), Options{Currency: "USD", IsCash: usdCash})

	require.Len(t, snap.MissingPrices, 1)
	missing := snap.MissingPrices[0]
	assert.Equal(t, "XYZ", missing.Asset)
	assert.True(t, missing.Quantity.Equal(dec("5")))
	assert.Equal(t, []string{"C"}, missing.Containers)

	// XYZ is excluded from every total.
	assert.True(t, snap.TotalValue.Equal(dec("30000")))
}

func TestAggregateCashSplit(t *testing.T) {
	holdings := []Holding{
		{Source: "coinbase", ContainerID: "A", AccountID: "A1", Asset: "USD", Quantity: dec("100")},
		{Source: "coinbase", ContainerID: "A", AccountID: "A1", Asset: "BTC", Quantity: dec("1")},
	}
	prices := map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"BTC": dec("30000"),
	}

	snap := Aggregate(valueAll(t, holdings, prices), Options{Currency: "USD", IsCash: usdCash})

	assert.True(t, snap.CashValue.Equal(dec("100")))
	assert.True(t, snap.PositionsValue.Equal(dec("30000")))
	assert.True(t, snap.TotalValue.Equal(dec("30100")))

	require.Len(t, snap.ByAccount, 1)
	acct := snap.ByAccount[0]
	assert.True(t, acct.CashValue.Equal(dec("100")))
	assert.True(t, acct.PositionsValue.Equal(dec("30000")))
	assert.True(t, acct.TotalValue.Equal(dec("30100")))
}

func TestAggregateIgnoredAssetNeverMissing(t *testing.T) {
	holdings := []Holding{
		{Source: "coinbase", ContainerID: "A", Asset: "DUST", Quantity: dec("42")},
	}

	snap := Aggregate(valueAll(t, holdings, nil), Options{
		Currency: "USD",
		IsCash:   usdCash,
		Ignored:  map[string]struct{}{"DUST": {}},
	})

	assert.Empty(t, snap.MissingPrices)
	// The ignored asset still shows up in the by-asset view.
	require.Len(t, snap.ByAsset, 1)
	assert.Equal(t, "DUST", snap.ByAsset[0].Asset)
	assert.Nil(t, snap.ByAsset[0].MarketValue)
}

func TestAggregateZeroQuantityNeverMissing(t *testing.T) {
	holdings := []Holding{
		{Source: "coinbase", ContainerID: "A", Asset: "XYZ", Quantity: decimal.Zero},
	}

	snap := Aggregate(valueAll(t, holdings, nil), Options{Currency: "USD", IsCash: usdCash})

	assert.Empty(t, snap.MissingPrices)
	require.Len(t, snap.ByAsset, 1)
	assert.True(t, snap.ByAsset[0].Quantity.IsZero())
}

func TestAggregateSeedsEmptyContainers(t *testing.T) {
	snap := Aggregate(nil, Options{
		Currency: "USD",
		IsCash:   usdCash,
		Containers: []ContainerRef{
			{Source: "coldstorage", ContainerID: "trezor", Name: "Trezor 2022"},
		},
	})

	require.Len(t, snap.ByContainer, 1)
	assert.Equal(t, "Trezor 2022", snap.ByContainer[0].Name)
	assert.True(t, snap.ByContainer[0].TotalValue.IsZero())
}

func TestAggregateTotalsConsistency(t *testing.T) {
	holdings := []Holding{
		{Source: "coinbase", ContainerID: "A", AccountID: "A1", Asset: "BTC", Quantity: dec("0.31")},
		{Source: "coinbase", ContainerID: "A", AccountID: "A2", Asset: "USD", Quantity: dec("123.45")},
		{Source: "schwab", ContainerID: "S", AccountID: "S1", Asset: "VOO", Quantity: dec("7")},
		{Source: "schwab", ContainerID: "S", AccountID: "S2", Asset: "USDC", Quantity: dec("0.003")},
		{Source: "coldstorage", ContainerID: "T", Asset: "ETH", Quantity: dec("1.7")},
		{Source: "coldstorage", ContainerID: "T", Asset: "XYZ", Quantity: dec("9")},
	}
	prices := map[string]decimal.Decimal{
		"BTC": dec("30123.45"), "USD": decimal.NewFromInt(1),
		"VOO": dec("412.07"), "USDC": decimal.NewFromInt(1), "ETH": dec("1987.33"),
	}

	snap := Aggregate(valueAll(t, holdings, prices), Options{Currency: "USD", IsCash: usdCash})

	byAccount := decimal.Zero
	for _, a := range snap.ByAccount {
		byAccount = byAccount.Add(a.TotalValue)
	}
	byContainer := decimal.Zero
	for _, c := range snap.ByContainer {
		byContainer = byContainer.Add(c.TotalValue)
	}

	assert.True(t, snap.TotalValue.Equal(byAccount), "account totals %s != total %s", byAccount, snap.TotalValue)
	assert.True(t, snap.TotalValue.Equal(byContainer), "container totals %s != total %s", byContainer, snap.TotalValue)
	assert.True(t, snap.TotalValue.Equal(snap.CashValue.Add(snap.PositionsValue)))
}

func TestAggregateOrderIndependent(t *testing.T) {
	holdings := []Holding{
		{Source: "coinbase", ContainerID: "A", AccountID: "A1", Asset: "BTC", Quantity: dec("2")},
		{Source: "coinbase", ContainerID: "A", AccountID: "A2", Asset: "USD", Quantity: dec("50")},
		{Source: "coldstorage", ContainerID: "B", Asset: "BTC", Quantity: dec("1")},
		{Source: "coldstorage", ContainerID: "B", Asset: "XYZ", Quantity: dec("4")},
		{Source: "schwab", ContainerID: "S", AccountID: "S1", Asset: "VOO", Quantity: dec("3")},
	}
	prices := map[string]decimal.Decimal{
		"BTC": dec("30000"), "USD": decimal.NewFromInt(1), "VOO": dec("400"),
	}
	opts := Options{Currency: "USD", IsCash: usdCash}

	baseline := Aggregate(valueAll(t, holdings, prices), opts)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]Holding, len(holdings))
		copy(shuffled, holdings)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		snap := Aggregate(valueAll(t, shuffled, prices), opts)
		assert.Equal(t, baseline.ByAsset, snap.ByAsset)
		assert.Equal(t, baseline.ByAccount, snap.ByAccount)
		assert.Equal(t, baseline.ByContainer, snap.ByContainer)
		assert.Equal(t, baseline.MissingPrices, snap.MissingPrices)
		assert.True(t, baseline.TotalValue.Equal(snap.TotalValue))
	}
}
