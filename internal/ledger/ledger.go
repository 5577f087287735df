// Package ledger builds the per-transaction history of a wallet.
package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/balance"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

// Build creates the ledger entry of res for walletID. Received ids are the
// note ids of every scanned output, spent ids are the nullifiers the
// transaction reveals. NetChange is left at zero; see NetChange.
func Build(res *models.ScanResult, walletID string, height *uint32, ts time.Time) models.LedgerEntry {
	e := models.LedgerEntry{
		WalletID:        walletID,
		TxID:            res.TxID,
		ReceivedNoteIDs: make([]string, 0, len(res.Notes)),
		SpentNoteIDs:    make([]string, 0, len(res.SpentNullifiers)),
		Timestamp:       ts.UTC(),
	}
	if height != nil {
		h := *height
		e.Height = &h
	}
	for _, n := range res.Notes {
		e.ReceivedNoteIDs = append(e.ReceivedNoteIDs, models.NoteID(walletID, res.TxID, n.Pool, n.OutputIndex))
	}
	for _, nf := range res.SpentNullifiers {
		e.SpentNoteIDs = append(e.SpentNoteIDs, nf.Nullifier)
	}
	return e
}

// NetChange is the value the transaction of e brought to the wallet: its
// received notes minus the wallet notes it spent.
func NetChange(set map[string]models.StoredNote, e models.LedgerEntry) int64 {
	var net int64
	for _, id := range e.ReceivedNoteIDs {
		if n, ok := set[id]; ok {
			net += int64(n.Value)
		}
	}
	for _, n := range set {
		if n.WalletID == e.WalletID && n.SpentTxID != nil && *n.SpentTxID == e.TxID {
			net -= int64(n.Value)
		}
	}
	return net
}

type key struct {
	walletID, txid string
}

// Ledger holds one entry per wallet and transaction.
type Ledger map[key]models.LedgerEntry

func New() Ledger { return make(Ledger) }

// Put stores e, replacing any entry for the same wallet and transaction.
func (l Ledger) Put(e models.LedgerEntry) {
	l[key{e.WalletID, e.TxID}] = e
}

func (l Ledger) Get(walletID, txid string) (models.LedgerEntry, bool) {
	e, ok := l[key{walletID, txid}]
	return e, ok
}

// Entries returns the entries of walletID in chronological order.
func (l Ledger) Entries(walletID string) []models.LedgerEntry {
	var out []models.LedgerEntry
	for k, e := range l {
		if k.walletID == walletID {
			out = append(out, e)
		}
	}
	balance.SortChronological(out)
	return out
}

var csvHeader = []string{"date", "txid", "height", "net_change", "running_balance"}

// WriteCSV writes entries with a running balance, oldest first.
func WriteCSV(w io.Writer, entries []models.LedgerEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range balance.Running(entries) {
		height := ""
		if p.Height != nil {
			height = strconv.FormatUint(uint64(*p.Height), 10)
		}
		rec := []string{
			p.Timestamp.UTC().Format(time.RFC3339),
			p.TxID,
			height,
			strconv.FormatInt(p.NetChange, 10),
			strconv.FormatInt(p.Balance, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
