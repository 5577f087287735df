// Package models defines client-side records persisted by the zviewer CLI.
package models

import (
	"time"

	core "github.com/dmitrijs2005/zviewer/internal/models"
)

// Wallet is an imported viewing key and what it can see. The key itself is
// stored sealed.
type Wallet struct {
	// ID is a random UUID assigned on import.
	ID string

	// Name is a unique human label.
	Name string

	// Network the key was encoded for.
	Network core.Network

	// KeyKind is the classified encoding, e.g. "ufvk".
	KeyKind string

	// Capability is derived once from the key string.
	Capability core.Capability

	// SealedKey is the AEAD ciphertext of a KeyEnvelope.
	SealedKey []byte
	// KeyNonce is the AEAD nonce for SealedKey.
	KeyNonce []byte

	CreatedAt time.Time
}

// KeyEnvelope is the plaintext sealed into Wallet.SealedKey.
type KeyEnvelope struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

// PendingSpend is spend evidence seen in a scanned transaction that matched
// no stored note yet. It is retried after every later scan of the wallet.
type PendingSpend struct {
	WalletID     string
	SpendingTxID string
	Height       *uint32
	Evidence     core.SpendEvidence
	CreatedAt    time.Time
}
