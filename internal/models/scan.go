package models

import (
	"fmt"
	"time"
)

// SpentNullifier is public evidence that a shielded note was consumed.
type SpentNullifier struct {
	Pool      Pool   `json:"pool"`
	Nullifier string `json:"nullifier"`
}

// TransparentSpend names the transparent output consumed by an input.
type TransparentSpend struct {
	PrevTxID  string `json:"prev_txid"`
	PrevIndex uint32 `json:"prev_index"`
}

// SpendEvidence is either a nullifier (shielded pools) or an outpoint
// (transparent pool), selected by Pool.
type SpendEvidence struct {
	Pool      Pool   `json:"pool"`
	Nullifier string `json:"nullifier,omitempty"`
	PrevTxID  string `json:"prev_txid,omitempty"`
	PrevIndex uint32 `json:"prev_index,omitempty"`
}

func NullifierEvidence(s SpentNullifier) SpendEvidence {
	return SpendEvidence{Pool: s.Pool, Nullifier: s.Nullifier}
}

func OutpointEvidence(s TransparentSpend) SpendEvidence {
	return SpendEvidence{Pool: PoolTransparent, PrevTxID: s.PrevTxID, PrevIndex: s.PrevIndex}
}

// Key is a stable string identity for the evidence.
func (e SpendEvidence) Key() string {
	if e.Pool == PoolTransparent {
		return fmt.Sprintf("%s:%s:%d", e.Pool, e.PrevTxID, e.PrevIndex)
	}
	return fmt.Sprintf("%s:%s", e.Pool, e.Nullifier)
}

// ScanResult is what the scanner reports for one transaction.
type ScanResult struct {
	TxID                string
	Notes               []ScannedNote
	SpentNullifiers     []SpentNullifier
	TransparentSpends   []TransparentSpend
	TransparentReceived uint64
}

// Evidence returns all spend evidence, shielded first.
func (r *ScanResult) Evidence() []SpendEvidence {
	out := make([]SpendEvidence, 0, len(r.SpentNullifiers)+len(r.TransparentSpends))
	for _, s := range r.SpentNullifiers {
		out = append(out, NullifierEvidence(s))
	}
	for _, s := range r.TransparentSpends {
		out = append(out, OutpointEvidence(s))
	}
	return out
}

// LedgerEntry is the history record of one transaction for one wallet.
type LedgerEntry struct {
	WalletID        string    `json:"wallet_id"`
	TxID            string    `json:"txid"`
	ReceivedNoteIDs []string  `json:"received_note_ids"`
	SpentNoteIDs    []string  `json:"spent_note_ids"`
	NetChange       int64     `json:"net_change"`
	Height          *uint32   `json:"height,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
