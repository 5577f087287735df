package scanner

import (
	"encoding/hex"

	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/dmitrijs2005/zviewer/internal/txdecode"
	"github.com/dmitrijs2005/zviewer/internal/viewkey"
)

// Item is one shielded output handed to a Decryptor. The byte slices alias
// the decoded transaction and must not be modified.
type Item struct {
	Pool          models.Pool
	Index         int
	Commitment    [32]byte
	EphemeralKey  [32]byte
	EncCiphertext []byte
	OutCiphertext []byte
	// Rho is the nullifier of the note spent by the same Orchard action; the
	// Orchard note plaintext depends on it. Zero for Sapling.
	Rho [32]byte
}

// DecryptedItem is the plaintext recovered by a successful trial decryption.
type DecryptedItem struct {
	Value   uint64
	Memo    []byte
	Address string
	// Note carries decryptor specific state from TryDecrypt to Nullifier.
	Note any
}

// Decryptor performs trial decryption for one pool with one key. Nullifier
// returns the lower-case hex of the nullifier bytes, the same form spend
// evidence uses.
type Decryptor interface {
	TryDecrypt(item Item) (DecryptedItem, bool)
	Nullifier(item Item, note DecryptedItem) (string, error)
}

// DecryptorFactory prepares a Decryptor for key. It returns nil when the key
// lacks the material for the pool. height is passed through for pools whose
// note plaintext rules depend on chain context.
type DecryptorFactory func(key *viewkey.Key, height *uint32) Decryptor

type strategy struct {
	pool   models.Pool
	items  func(tx *txdecode.Transaction) []Item
	spends func(tx *txdecode.Transaction) []models.SpentNullifier
}

var strategies = []strategy{
	{
		pool: models.PoolSapling,
		items: func(tx *txdecode.Transaction) []Item {
			out := make([]Item, len(tx.Sapling.Outputs))
			for i := range tx.Sapling.Outputs {
				o := &tx.Sapling.Outputs[i]
				out[i] = Item{
					Pool:          models.PoolSapling,
					Index:         i,
					Commitment:    o.CMU,
					EphemeralKey:  o.EphemeralKey,
					EncCiphertext: o.EncCiphertext[:],
					OutCiphertext: o.OutCiphertext[:],
				}
			}
			return out
		},
		spends: func(tx *txdecode.Transaction) []models.SpentNullifier {
			out := make([]models.SpentNullifier, len(tx.Sapling.Spends))
			for i := range tx.Sapling.Spends {
				out[i] = models.SpentNullifier{
					Pool:      models.PoolSapling,
					Nullifier: hex.EncodeToString(tx.Sapling.Spends[i].Nullifier[:]),
				}
			}
			return out
		},
	},
	{
		pool: models.PoolOrchard,
		items: func(tx *txdecode.Transaction) []Item {
			out := make([]Item, len(tx.Orchard.Actions))
			for i := range tx.Orchard.Actions {
				a := &tx.Orchard.Actions[i]
				out[i] = Item{
					Pool:          models.PoolOrchard,
					Index:         i,
					Commitment:    a.CMX,
					EphemeralKey:  a.EphemeralKey,
					EncCiphertext: a.EncCiphertext[:],
					OutCiphertext: a.OutCiphertext[:],
					Rho:           a.Nullifier,
				}
			}
			return out
		},
		spends: func(tx *txdecode.Transaction) []models.SpentNullifier {
			out := make([]models.SpentNullifier, len(tx.Orchard.Actions))
			for i := range tx.Orchard.Actions {
				out[i] = models.SpentNullifier{
					Pool:      models.PoolOrchard,
					Nullifier: hex.EncodeToString(tx.Orchard.Actions[i].Nullifier[:]),
				}
			}
			return out
		},
	},
}
