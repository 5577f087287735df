package txdecode

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

const (
	encCiphertextSize = 580
	outCiphertextSize = 80

	// compactNoteSize is the prefix of the note ciphertext that light clients
	// trial-decrypt; memoEnd marks the end of the 512-byte memo.
	compactNoteSize = 52
	memoEnd         = compactNoteSize + 512
)

type SaplingSpend struct {
	CV        [32]byte
	Anchor    [32]byte
	Nullifier [32]byte
	RK        [32]byte
}

type SaplingOutput struct {
	CV            [32]byte
	CMU           [32]byte
	EphemeralKey  [32]byte
	EncCiphertext [encCiphertextSize]byte
	OutCiphertext [outCiphertextSize]byte
}

type SaplingBundle struct {
	Spends       []SaplingSpend
	Outputs      []SaplingOutput
	ValueBalance int64
	// Anchor is the shared v5 anchor; v4 spends carry their own.
	Anchor [32]byte
}

func (b *SaplingBundle) Empty() bool { return len(b.Spends) == 0 && len(b.Outputs) == 0 }

// OrchardAction is a combined spend and output.
type OrchardAction struct {
	CV            [32]byte
	Nullifier     [32]byte
	RK            [32]byte
	CMX           [32]byte
	EphemeralKey  [32]byte
	EncCiphertext [encCiphertextSize]byte
	OutCiphertext [outCiphertextSize]byte
}

type OrchardBundle struct {
	Actions      []OrchardAction
	Flags        byte
	ValueBalance int64
	Anchor       [32]byte
}

func (b *OrchardBundle) Empty() bool { return len(b.Actions) == 0 }

// Transaction is a decoded v4 or v5 transaction. Proofs and signatures are
// validated for length and skipped.
type Transaction struct {
	Epoch          Epoch
	Network        models.Network
	Version        uint32
	VersionGroupID uint32
	BranchID       uint32
	LockTime       uint32
	ExpiryHeight   uint32

	TxIn  []*wire.TxIn
	TxOut []*wire.TxOut

	Sapling    SaplingBundle
	JoinSplits int
	Orchard    OrchardBundle

	hash chainhash.Hash
}

// Hash returns the txid in internal byte order.
func (t *Transaction) Hash() chainhash.Hash { return t.hash }

// TxID returns the txid as displayed by block explorers and the node RPC.
func (t *Transaction) TxID() string { return t.hash.String() }

// IsCoinbase reports whether in spends the null outpoint.
func IsCoinbase(in *wire.TxIn) bool {
	return in.PreviousOutPoint.Index == wire.MaxPrevOutIndex &&
		in.PreviousOutPoint.Hash == (chainhash.Hash{})
}
