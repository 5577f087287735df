package notes

import (
	"time"

	"github.com/dmitrijs2005/zviewer/internal/models"
)

// ApplyResult summarises what ApplyScan did to a set.
type ApplyResult struct {
	Inserted []string
	MarkResult
}

// ApplyScan merges every note of res into s and then applies all of its
// spend evidence. Notes are merged first so evidence from a transaction that
// spends its own outputs can match.
func ApplyScan(s Set, walletID string, res *models.ScanResult, height *uint32, now time.Time) ApplyResult {
	var out ApplyResult
	for _, n := range res.Notes {
		stored := NewStoredNote(walletID, res.TxID, n, now)
		if s.AddOrUpdate(stored) {
			out.Inserted = append(out.Inserted, stored.ID)
		}
	}
	out.MarkResult = s.MarkSpent(res.Evidence(), res.TxID, height)
	return out
}
