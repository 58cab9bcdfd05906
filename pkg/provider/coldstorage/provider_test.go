package coldstorage

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBalanceReader struct {
	balances map[common.Address]*big.Int
	err      error
}

func (f *fakeBalanceReader) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	if wei, ok := f.balances[account]; ok {
		return wei, nil
	}
	return big.NewInt(0), nil
}

func TestProviderContainersAndHoldings(t *testing.T) {
	path := writeDeviceFile(t, `
devices:
  - name: Trezor 2022
    holdings:
      BTC: "11.08"
`)
	p := NewProvider("cold_storage", path)
	ctx := context.Background()

	refs, err := p.ListContainers(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "cold_storage", refs[0].Source)
	assert.Equal(t, "Trezor 2022", refs[0].ContainerID)

	accounts, err := p.ListAccounts(ctx, "Trezor 2022")
	require.NoError(t, err)
	assert.Empty(t, accounts, "devices have no sub-accounts")

	holdings, err := p.GetHoldings(ctx, "Trezor 2022")
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "BTC", holdings[0].Asset)
	assert.True(t, holdings[0].Quantity.Equal(decimal.RequireFromString("11.08")))

	holdings, err = p.GetHoldings(ctx, "unknown-device")
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestProviderWatchAddressBalances(t *testing.T) {
	address := "0x00000000219ab540356cBB839Cbe05303d7705Fa"
	path := writeDeviceFile(t, `
devices:
  - name: Vault
    holdings:
      ETH: "1"
    watch_addresses:
      - "`+address+`"
`)

	// 2.5 ETH in wei.
	wei, _ := new(big.Int).SetString("2500000000000000000", 10)
	reader := &fakeBalanceReader{balances: map[common.Address]*big.Int{
		common.HexToAddress(address): wei,
	}}

	p := NewProvider("cold_storage", path, WithBalanceReader(reader))
	holdings, err := p.GetHoldings(context.Background(), "Vault")
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	total := decimal.Zero
	for _, h := range holdings {
		assert.Equal(t, "ETH", h.Asset)
		total = total.Add(h.Quantity)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("3.5")))
}

func TestProviderWatchAddressFailureFailsContainer(t *testing.T) {
	path := writeDeviceFile(t, `
devices:
  - name: Vault
    watch_addresses:
      - "0x00000000219ab540356cBB839Cbe05303d7705Fa"
`)
	p := NewProvider("cold_storage", path, WithBalanceReader(&fakeBalanceReader{err: errors.New("rpc down")}))

	_, err := p.GetHoldings(context.Background(), "Vault")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc down")
}

func TestProviderRejectsBadWatchAddress(t *testing.T) {
	path := writeDeviceFile(t, `
devices:
  - name: Vault
    watch_addresses:
      - "not-an-address"
`)
	p := NewProvider("cold_storage", path, WithBalanceReader(&fakeBalanceReader{}))

	_, err := p.GetHoldings(context.Background(), "Vault")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid watch address")
}
