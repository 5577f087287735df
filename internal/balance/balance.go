// Package balance sums the spendable value of a note set.
package balance

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/models"
)

type Balance struct {
	Total  uint64                 `json:"total"`
	ByPool map[models.Pool]uint64 `json:"by_pool"`
}

// Get returns the balance of one pool, zero when it holds nothing.
func (b Balance) Get(p models.Pool) uint64 { return b.ByPool[p] }

// Calculate sums unspent notes with a positive value. Placeholders carry no
// value and never count.
func Calculate(notes []models.StoredNote) Balance {
	b := Balance{ByPool: make(map[models.Pool]uint64)}
	for _, n := range notes {
		b.add(n)
	}
	return b
}

func (b *Balance) add(n models.StoredNote) {
	if n.IsSpent() || n.Value == 0 {
		return
	}
	b.Total += n.Value
	b.ByPool[n.Pool] += n.Value
}

// Point is the balance after one ledger entry.
type Point struct {
	TxID      string
	Timestamp time.Time
	Height    *uint32
	NetChange int64
	Balance   int64
}

// Running accumulates NetChange over entries in chronological order, by
// height then timestamp. Entries without a height sort after mined ones.
func Running(entries []models.LedgerEntry) []Point {
	sorted := append([]models.LedgerEntry(nil), entries...)
	SortChronological(sorted)

	out := make([]Point, len(sorted))
	var acc int64
	for i, e := range sorted {
		acc += e.NetChange
		out[i] = Point{
			TxID:      e.TxID,
			Timestamp: e.Timestamp,
			Height:    e.Height,
			NetChange: e.NetChange,
			Balance:   acc,
		}
	}
	return out
}

// SortChronological orders entries by height, then timestamp, then txid.
func SortChronological(entries []models.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.Height != nil && b.Height != nil && *a.Height != *b.Height:
			return *a.Height < *b.Height
		case (a.Height == nil) != (b.Height == nil):
			return a.Height != nil
		case !a.Timestamp.Equal(b.Timestamp):
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.TxID < b.TxID
	})
}
