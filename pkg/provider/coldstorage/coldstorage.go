// Package coldstorage reads holdings for offline wallets from a
// user-maintained file, optionally augmented with on-chain balances for
// watch-only Ethereum addresses.
package coldstorage

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Device is one cold-storage wallet: a name plus its asset quantities, and
// optionally Ethereum addresses whose ETH balance is read on-chain.
type Device struct {
	Name           string
	Holdings       map[string]decimal.Decimal
	WatchAddresses []string
}

type deviceFile struct {
	Devices []deviceEntry `yaml:"devices" json:"devices"`
}

type deviceEntry struct {
	Name           string            `yaml:"name" json:"name"`
	Holdings       map[string]string `yaml:"holdings" json:"holdings"`
	WatchAddresses []string          `yaml:"watch_addresses" json:"watch_addresses"`
}

// LoadDevices parses the cold-storage file. A missing file yields an empty
// device list; malformed entries are skipped conservatively so one typo does
// not take out the whole source. The file is YAML, which also accepts the
// older JSON layout.
func LoadDevices(path string) ([]Device, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("coldstorage: read %s: %w", path, err)
	}

	var parsed deviceFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("coldstorage: parse %s: %w", path, err)
	}

	devices := make([]Device, 0, len(parsed.Devices))
	for _, entry := range parsed.Devices {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}

		holdings := make(map[string]decimal.Decimal, len(entry.Holdings))
		for asset, qty := range entry.Holdings {
			asset = strings.ToUpper(strings.TrimSpace(asset))
			if asset == "" {
				continue
			}
			quantity, err := decimal.NewFromString(strings.TrimSpace(qty))
			if err != nil || quantity.IsNegative() {
				continue
			}
			holdings[asset] = quantity
		}

		addresses := make([]string, 0, len(entry.WatchAddresses))
		for _, addr := range entry.WatchAddresses {
			addr = strings.TrimSpace(addr)
			if addr != "" {
				addresses = append(addresses, addr)
			}
		}

		if len(holdings) == 0 && len(addresses) == 0 {
			continue
		}
		devices = append(devices, Device{Name: name, Holdings: holdings, WatchAddresses: addresses})
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })
	return devices, nil
}
