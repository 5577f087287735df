package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/memo"
	"github.com/google/uuid"
)

// NotePlaintext holds the fields recovered from a note the key could read.
// Transparent outputs always carry one since their values are public.
type NotePlaintext struct {
	Value     uint64
	Memo      *string
	Address   *string
	Nullifier *string
	// Message is set when the memo carries a protocol message.
	Message *memo.Message
}

// ScannedNote is one candidate note found in a transaction. Plaintext is nil
// for shielded items the key could not decrypt; such notes are placeholders
// and only carry the commitment.
type ScannedNote struct {
	OutputIndex int
	Pool        Pool
	Commitment  string
	Plaintext   *NotePlaintext
}

func (n ScannedNote) IsPlaceholder() bool { return n.Plaintext == nil }

func (n ScannedNote) Value() uint64 {
	if n.Plaintext == nil {
		return 0
	}
	return n.Plaintext.Value
}

func (n ScannedNote) Nullifier() string {
	if n.Plaintext == nil || n.Plaintext.Nullifier == nil {
		return ""
	}
	return *n.Plaintext.Nullifier
}

// StoredNote is the persisted form of a note. Only the spend fields change
// after creation.
type StoredNote struct {
	ID            string        `json:"id"`
	WalletID      string        `json:"wallet_id"`
	TxID          string        `json:"txid"`
	OutputIndex   int           `json:"output_index"`
	Pool          Pool          `json:"pool"`
	Value         uint64        `json:"value"`
	Commitment    string        `json:"commitment,omitempty"`
	Nullifier     string        `json:"nullifier,omitempty"`
	Memo          *string       `json:"memo,omitempty"`
	// Message keeps the header of a protocol memo so fragments received in
	// separate notes can be reassembled later.
	Message       *memo.Message `json:"message,omitempty"`
	Address       *string       `json:"address,omitempty"`
	Decrypted     bool          `json:"decrypted"`
	SpentTxID     *string       `json:"spent_txid,omitempty"`
	SpentAtHeight *uint32       `json:"spent_at_height,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (n StoredNote) IsSpent() bool { return n.SpentTxID != nil }

// noteNamespace scopes the name-based note ids.
var noteNamespace = uuid.MustParse("5b0c7f0e-3d1a-4c55-9a57-6f1f7a3c2e10")

// NoteID derives the id of a note from its position on chain. The same
// output scanned twice for the same wallet always gets the same id.
func NoteID(walletID, txid string, pool Pool, outputIndex int) string {
	name := fmt.Sprintf("%s|%s|%s|%d", walletID, txid, pool, outputIndex)
	return uuid.NewSHA1(noteNamespace, []byte(name)).String()
}
