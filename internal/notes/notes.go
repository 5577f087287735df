// Package notes keeps a wallet's note set in step with scan results.
//
// A Set is an ordinary map and does no locking; callers that reconcile the
// same wallet from several goroutines must serialize access.
package notes

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/memo"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

var ErrReconciliationConflict = errors.New("note already spent by another transaction")

// Set maps note id to note.
type Set map[string]models.StoredNote

// NewStoredNote builds the persistent record of a scanned note.
func NewStoredNote(walletID, txid string, n models.ScannedNote, now time.Time) models.StoredNote {
	s := models.StoredNote{
		ID:          models.NoteID(walletID, txid, n.Pool, n.OutputIndex),
		WalletID:    walletID,
		TxID:        txid,
		OutputIndex: n.OutputIndex,
		Pool:        n.Pool,
		Commitment:  n.Commitment,
		CreatedAt:   now.UTC(),
	}
	fillPlaintext(&s, n.Plaintext)
	return s
}

func fillPlaintext(s *models.StoredNote, pt *models.NotePlaintext) {
	if pt == nil {
		return
	}
	s.Decrypted = true
	s.Value = pt.Value
	s.Memo = pt.Memo
	s.Message = pt.Message
	s.Address = pt.Address
	if pt.Nullifier != nil {
		s.Nullifier = *pt.Nullifier
	}
}

// AddOrUpdate inserts note, or merges it into the existing note with the same
// id. It reports whether the note was new.
//
// On merge the pool, commitment and creation time never change. A decrypted
// note upgrades a placeholder; a placeholder never downgrades a decrypted
// note. Spend fields of the existing note are kept.
func (s Set) AddOrUpdate(note models.StoredNote) bool {
	cur, ok := s[note.ID]
	if !ok {
		s[note.ID] = note
		return true
	}

	if note.Decrypted && !cur.Decrypted {
		cur.Decrypted = true
		cur.Value = note.Value
	}
	if note.Decrypted {
		if note.Memo != nil {
			cur.Memo = note.Memo
		}
		if note.Message != nil {
			cur.Message = note.Message
		}
		if note.Address != nil {
			cur.Address = note.Address
		}
		if note.Nullifier != "" {
			cur.Nullifier = note.Nullifier
		}
	}
	if cur.Commitment == "" {
		cur.Commitment = note.Commitment
	}
	if cur.SpentTxID == nil && note.SpentTxID != nil {
		cur.SpentTxID = note.SpentTxID
		cur.SpentAtHeight = note.SpentAtHeight
	}
	s[note.ID] = cur
	return false
}

// Conflict is spend evidence that matched a note already spent by a different
// transaction.
type Conflict struct {
	NoteID       string
	Evidence     models.SpendEvidence
	SpentBy      string
	SpendingTxID string
}

func (c Conflict) Error() string {
	return fmt.Sprintf("%s: note %s spent by %s, also claimed by %s",
		ErrReconciliationConflict, c.NoteID, c.SpentBy, c.SpendingTxID)
}

func (c Conflict) Unwrap() error { return ErrReconciliationConflict }

type MarkResult struct {
	Matched   []string
	Unmatched []models.SpendEvidence
	Conflicts []Conflict
}

// Err joins the conflicts, nil when there are none.
func (r MarkResult) Err() error {
	if len(r.Conflicts) == 0 {
		return nil
	}
	errs := make([]error, len(r.Conflicts))
	for i, c := range r.Conflicts {
		errs[i] = c
	}
	return errors.Join(errs...)
}

// MarkSpent applies spend evidence from spendingTxID. Shielded evidence
// matches by nullifier within its pool, transparent evidence by outpoint.
// The first spend wins: a repeat from the same transaction is a no-op and
// one from a different transaction is reported as a Conflict. Evidence that
// matches nothing is returned in Unmatched.
func (s Set) MarkSpent(evidence []models.SpendEvidence, spendingTxID string, height *uint32) MarkResult {
	spends := make([]Spend, len(evidence))
	for i, ev := range evidence {
		spends[i] = Spend{Evidence: ev, SpendingTxID: spendingTxID, Height: height}
	}
	_, res := s.MarkSpends(spends)
	return res
}

// Spend is one piece of evidence with the transaction that presented it.
type Spend struct {
	Evidence     models.SpendEvidence
	SpendingTxID string
	Height       *uint32
}

type Outcome int

const (
	SpendUnmatched Outcome = iota
	SpendMatched
	SpendConflicted
)

// MarkSpends is MarkSpent for evidence from many transactions. Spends are
// applied in order against a single evidence index; the returned outcomes
// line up with spends.
func (s Set) MarkSpends(spends []Spend) ([]Outcome, MarkResult) {
	var res MarkResult
	outcomes := make([]Outcome, len(spends))
	idx := s.index()

	for i, sp := range spends {
		ev := sp.Evidence
		id, ok := idx[ev.Key()]
		if !ok {
			res.Unmatched = append(res.Unmatched, ev)
			continue
		}

		n := s[id]
		switch {
		case n.SpentTxID == nil:
			txid := sp.SpendingTxID
			n.SpentTxID = &txid
			n.SpentAtHeight = copyHeight(sp.Height)
			s[id] = n
			res.Matched = append(res.Matched, id)
			outcomes[i] = SpendMatched
		case *n.SpentTxID == sp.SpendingTxID:
			if n.SpentAtHeight == nil && sp.Height != nil {
				n.SpentAtHeight = copyHeight(sp.Height)
				s[id] = n
			}
			res.Matched = append(res.Matched, id)
			outcomes[i] = SpendMatched
		default:
			res.Conflicts = append(res.Conflicts, Conflict{
				NoteID:       id,
				Evidence:     ev,
				SpentBy:      *n.SpentTxID,
				SpendingTxID: sp.SpendingTxID,
			})
			outcomes[i] = SpendConflicted
		}
	}
	return outcomes, res
}

// index maps spend evidence keys to note ids.
func (s Set) index() map[string]string {
	idx := make(map[string]string, len(s))
	for id, n := range s {
		if k, ok := EvidenceKey(n); ok {
			idx[k] = id
		}
	}
	return idx
}

// EvidenceKey returns the key of the spend evidence that would consume n.
// Shielded notes without a known nullifier cannot be matched.
func EvidenceKey(n models.StoredNote) (string, bool) {
	if n.Pool == models.PoolTransparent {
		return models.OutpointEvidence(models.TransparentSpend{
			PrevTxID:  n.TxID,
			PrevIndex: uint32(n.OutputIndex),
		}).Key(), true
	}
	if n.Nullifier == "" {
		return "", false
	}
	return models.NullifierEvidence(models.SpentNullifier{Pool: n.Pool, Nullifier: n.Nullifier}).Key(), true
}

func copyHeight(h *uint32) *uint32 {
	if h == nil {
		return nil
	}
	v := *h
	return &v
}

// Changed lists the ids whose records differ between before and s, including
// new ones.
func (s Set) Changed(before Set) []string {
	var ids []string
	for id, n := range s {
		old, ok := before[id]
		if !ok || !equal(old, n) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Clone returns a shallow copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func equal(a, b models.StoredNote) bool {
	return a.Value == b.Value &&
		a.Decrypted == b.Decrypted &&
		a.Nullifier == b.Nullifier &&
		a.Commitment == b.Commitment &&
		eqStr(a.Memo, b.Memo) &&
		eqMessage(a.Message, b.Message) &&
		eqStr(a.Address, b.Address) &&
		eqStr(a.SpentTxID, b.SpentTxID) &&
		eqU32(a.SpentAtHeight, b.SpentAtHeight)
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqMessage(a, b *memo.Message) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := *a, *b
	if (x.Fragment == nil) != (y.Fragment == nil) || (x.Fragment != nil && *x.Fragment != *y.Fragment) {
		return false
	}
	x.Fragment, y.Fragment = nil, nil
	return x == y
}

func eqU32(a, b *uint32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
