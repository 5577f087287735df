package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/client/client"
	cm "github.com/dmitrijs2005/zviewer/internal/client/models"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/zviewer/internal/common"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	"github.com/dmitrijs2005/zviewer/internal/ledger"
	"github.com/dmitrijs2005/zviewer/internal/logging"
	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/dmitrijs2005/zviewer/internal/notes"
	"github.com/dmitrijs2005/zviewer/internal/scanner"
	"github.com/dmitrijs2005/zviewer/internal/txdecode"
)

// ErrTxIDMismatch means the node answered with a transaction other than the
// one requested.
var ErrTxIDMismatch = errors.New("transaction id mismatch")

// ScanReport describes what one scan changed.
type ScanReport struct {
	TxID  string
	Epoch txdecode.Epoch
	Entry models.LedgerEntry
	// Notes are the outputs found in the transaction, including placeholders.
	Notes    []models.ScannedNote
	Inserted []string
	Matched  []string
	// Pending counts evidence that matched nothing and was kept for retry.
	// Evidence for a pool the key cannot view, or naming a transparent
	// output of a transaction already scanned, is not kept.
	Pending int
	// Pruned counts parked transparent evidence dropped because this scan
	// showed the output it names is not the wallet's.
	Pruned int
	// Resolved lists spending txids whose pending evidence matched in this
	// scan.
	Resolved  []string
	Conflicts []notes.Conflict
}

// Err reports the conflicts of the scan, nil when there are none.
func (r *ScanReport) Err() error {
	return notes.MarkResult{Conflicts: r.Conflicts}.Err()
}

// ScanService runs the scan pipeline for stored wallets and persists the
// outcome. Scans of the same wallet are serialized.
type ScanService interface {
	ScanRaw(ctx context.Context, walletID string, raw []byte, height *uint32, ts time.Time, masterKey []byte) (*ScanReport, error)
	ScanHex(ctx context.Context, walletID, rawHex string, height *uint32, masterKey []byte) (*ScanReport, error)
	ScanTxID(ctx context.Context, walletID, txid string, height *uint32, masterKey []byte) (*ScanReport, error)
}

type scanService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	wallets WalletService
	scanner *scanner.Scanner
	node    client.NodeClient
	logger  logging.Logger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewScanService wires the pipeline. node may be nil, in which case only
// raw and hex scans are available.
func NewScanService(db *sql.DB, repos repomanager.RepositoryManager, wallets WalletService,
	sc *scanner.Scanner, node client.NodeClient, logger logging.Logger) ScanService {
	return &scanService{
		db:      db,
		repos:   repos,
		wallets: wallets,
		scanner: sc,
		node:    node,
		logger:  logger,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *scanService) walletLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *scanService) ScanHex(ctx context.Context, walletID, rawHex string, height *uint32, masterKey []byte) (*ScanReport, error) {
	return s.scan(ctx, walletID, func(n models.Network) (*txdecode.Transaction, error) {
		return txdecode.DecodeHex(rawHex, n)
	}, "", height, s.now(), masterKey)
}

// ScanTxID fetches txid from the node and scans it at its mined height and
// block time. Mempool transactions are scanned without a height unless one
// is given.
func (s *scanService) ScanTxID(ctx context.Context, walletID, txid string, height *uint32, masterKey []byte) (*ScanReport, error) {
	if s.node == nil {
		return nil, client.ErrUnavailable
	}
	tx, err := s.node.GetRawTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}
	ts := tx.BlockTime
	if ts.IsZero() {
		ts = s.now()
	}
	if height == nil {
		height = tx.Height
	}
	return s.scan(ctx, walletID, func(n models.Network) (*txdecode.Transaction, error) {
		return txdecode.DecodeHex(tx.Hex, n)
	}, txid, height, ts, masterKey)
}

// ScanRaw decodes raw under the wallet's network, scans it with the wallet's
// key and reconciles the result into storage in one transaction:
// notes are merged, spend evidence is applied, evidence that matches nothing
// is parked in pending_spends, earlier pending evidence is retried and the
// ledger entries of every affected transaction are rewritten.
func (s *scanService) ScanRaw(ctx context.Context, walletID string, raw []byte, height *uint32, ts time.Time, masterKey []byte) (*ScanReport, error) {
	return s.scan(ctx, walletID, decodeRaw(raw), "", height, ts, masterKey)
}

func decodeRaw(raw []byte) func(models.Network) (*txdecode.Transaction, error) {
	return func(n models.Network) (*txdecode.Transaction, error) {
		return txdecode.Decode(raw, n)
	}
}

// scan decodes under the wallet's network. A non-empty wantTxID must equal
// the decoded txid.
func (s *scanService) scan(ctx context.Context, walletID string, decode func(models.Network) (*txdecode.Transaction, error),
	wantTxID string, height *uint32, ts time.Time, masterKey []byte) (*ScanReport, error) {
	if masterKey == nil {
		return nil, common.ErrorLocked
	}

	l := s.walletLock(walletID)
	l.Lock()
	defer l.Unlock()

	w, err := s.repos.Wallets(s.db).GetByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", walletID, err)
	}
	key, err := s.wallets.Key(ctx, w, masterKey)
	if err != nil {
		return nil, err
	}

	tx, err := decode(w.Network)
	if err != nil {
		return nil, err
	}
	if wantTxID != "" && !strings.EqualFold(tx.TxID(), strings.TrimSpace(wantTxID)) {
		return nil, fmt.Errorf("%w: requested %s, decoded %s", ErrTxIDMismatch, wantTxID, tx.TxID())
	}
	res, err := s.scanner.Scan(tx, key, height)
	if err != nil {
		return nil, err
	}

	report := &ScanReport{TxID: res.TxID, Epoch: tx.Epoch, Notes: res.Notes}
	now := s.now()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, dbtx dbx.DBTX) error {
		notesRepo := s.repos.Notes(dbtx)
		pendingRepo := s.repos.Pending(dbtx)
		ledgerRepo := s.repos.Ledger(dbtx)

		stored, err := notesRepo.ListByWallet(ctx, walletID)
		if err != nil {
			return err
		}
		set := make(notes.Set, len(stored))
		for _, n := range stored {
			set[n.ID] = n
		}
		before := set.Clone()

		applied := notes.ApplyScan(set, walletID, res, height, now)
		report.Inserted = applied.Inserted
		report.Matched = applied.Matched
		report.Conflicts = applied.Conflicts

		resolved, err := s.retryPending(ctx, pendingRepo, set, walletID, res.TxID, report)
		if err != nil {
			return err
		}

		for _, ev := range applied.Unmatched {
			if !key.Capability.CanView(ev.Pool) {
				continue
			}
			if ev.Pool == models.PoolTransparent {
				// the funding tx was scanned and the output is not ours
				_, err := ledgerRepo.Get(ctx, walletID, ev.PrevTxID)
				if err == nil {
					continue
				}
				if !errors.Is(err, common.ErrorNotFound) {
					return err
				}
			}
			err := pendingRepo.Add(ctx, cm.PendingSpend{
				WalletID:     walletID,
				SpendingTxID: res.TxID,
				Height:       height,
				Evidence:     ev,
				CreatedAt:    now.UTC(),
			})
			if err != nil {
				return err
			}
			report.Pending++
		}

		for _, id := range set.Changed(before) {
			if err := notesRepo.Upsert(ctx, set[id]); err != nil {
				return err
			}
		}

		entry := ledger.Build(res, walletID, height, ts)
		entry.NetChange = ledger.NetChange(set, entry)
		if err := ledgerRepo.Put(ctx, entry); err != nil {
			return err
		}
		report.Entry = entry

		for _, txid := range resolved {
			if txid == res.TxID {
				continue
			}
			e, err := ledgerRepo.Get(ctx, walletID, txid)
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			e.NetChange = ledger.NetChange(set, *e)
			if err := ledgerRepo.Put(ctx, *e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", res.TxID, err)
	}

	s.logger.Info(ctx, "scanned transaction",
		"wallet", walletID, "txid", res.TxID, "epoch", tx.Epoch,
		"notes", len(res.Notes), "inserted", len(report.Inserted),
		"matched", len(report.Matched), "pending", report.Pending, "net", report.Entry.NetChange)
	for _, c := range report.Conflicts {
		s.logger.Warn(ctx, "conflicting spend", "wallet", walletID, "note", c.NoteID, "spent_by", c.SpentBy, "txid", c.SpendingTxID)
	}
	return report, nil
}

// retryPending applies parked evidence to set in one pass. Evidence that
// matched or conflicted is removed from the store, and so is transparent
// evidence naming an output of scannedTxID that did not match: that
// transaction is now known and the output belongs to someone else. It
// returns the spending txids whose evidence matched.
func (s *scanService) retryPending(ctx context.Context, repo pendingRemover, set notes.Set, walletID, scannedTxID string, report *ScanReport) ([]string, error) {
	parked, err := repo.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if len(parked) == 0 {
		return nil, nil
	}

	spends := make([]notes.Spend, len(parked))
	for i, p := range parked {
		spends[i] = notes.Spend{Evidence: p.Evidence, SpendingTxID: p.SpendingTxID, Height: p.Height}
	}
	outcomes, mr := set.MarkSpends(spends)
	report.Matched = append(report.Matched, mr.Matched...)
	report.Conflicts = append(report.Conflicts, mr.Conflicts...)

	seen := make(map[string]bool)
	var resolved []string
	for i, p := range parked {
		switch outcomes[i] {
		case notes.SpendUnmatched:
			if p.Evidence.Pool != models.PoolTransparent || p.Evidence.PrevTxID != scannedTxID {
				continue
			}
			report.Pruned++
		case notes.SpendMatched:
			if !seen[p.SpendingTxID] {
				seen[p.SpendingTxID] = true
				resolved = append(resolved, p.SpendingTxID)
			}
		}
		if err := repo.Remove(ctx, walletID, p.Evidence.Key()); err != nil {
			return nil, err
		}
	}
	report.Resolved = resolved
	return resolved, nil
}

type pendingRemover interface {
	ListByWallet(ctx context.Context, walletID string) ([]cm.PendingSpend, error)
	Remove(ctx context.Context, walletID, evidenceKey string) error
}
