// Package models holds the domain types shared by the scanner, the note
// reconciler, the ledger and the client persistence layer.
package models

import (
	"fmt"
	"strings"
)

// Pool identifies a value pool of the chain.
type Pool string

const (
	PoolTransparent Pool = "transparent"
	PoolSapling     Pool = "sapling"
	PoolOrchard     Pool = "orchard"
)

// Pools lists every pool in scan output order.
var Pools = []Pool{PoolTransparent, PoolSapling, PoolOrchard}

func (p Pool) String() string { return string(p) }

// Shielded reports whether the pool hides values on-chain.
func (p Pool) Shielded() bool {
	return p == PoolSapling || p == PoolOrchard
}

// ParsePool accepts any letter case.
func ParsePool(s string) (Pool, error) {
	switch p := Pool(strings.ToLower(strings.TrimSpace(s))); p {
	case PoolTransparent, PoolSapling, PoolOrchard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown pool %q", s)
	}
}

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkRegtest Network = "regtest"
)

func (n Network) String() string { return string(n) }

func ParseNetwork(s string) (Network, error) {
	switch n := Network(strings.ToLower(strings.TrimSpace(s))); n {
	case NetworkMainnet, NetworkTestnet, NetworkRegtest:
		return n, nil
	case "main":
		return NetworkMainnet, nil
	case "test":
		return NetworkTestnet, nil
	default:
		return "", fmt.Errorf("unknown network %q", s)
	}
}
