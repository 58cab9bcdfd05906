package coldstorage

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// BalanceReader reads on-chain account balances; *ethclient.Client
// satisfies it.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

const weiExponent = -18

// ethBalance returns the current ETH balance of one address as a decimal
// quantity in whole ether.
func ethBalance(ctx context.Context, reader BalanceReader, address string) (decimal.Decimal, error) {
	if !common.IsHexAddress(address) {
		return decimal.Zero, fmt.Errorf("coldstorage: invalid watch address %q", address)
	}
	wei, err := reader.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coldstorage: balance of %s: %w", address, err)
	}
	return decimal.NewFromBigInt(wei, weiExponent), nil
}
