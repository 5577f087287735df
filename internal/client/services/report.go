package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/zviewer/internal/balance"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/dmitrijs2005/zviewer/internal/notes"
)

// ReportService answers read-only questions about a wallet.
type ReportService interface {
	Balance(ctx context.Context, walletID string) (balance.Balance, error)
	Notes(ctx context.Context, walletID string) ([]models.StoredNote, error)
	// Entries returns the ledger in chronological order.
	Entries(ctx context.Context, walletID string) ([]models.LedgerEntry, error)
	History(ctx context.Context, walletID string) ([]balance.Point, error)
	// Messages returns the protocol messages received by the wallet, with
	// fragments that arrived in separate notes joined back together.
	Messages(ctx context.Context, walletID string) ([]notes.Inbound, error)
}

type reportService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewReportService(db *sql.DB, repos repomanager.RepositoryManager) ReportService {
	return &reportService{db: db, repos: repos}
}

func (r *reportService) Balance(ctx context.Context, walletID string) (balance.Balance, error) {
	list, err := r.Notes(ctx, walletID)
	if err != nil {
		return balance.Balance{}, err
	}
	return balance.Calculate(list), nil
}

func (r *reportService) Notes(ctx context.Context, walletID string) ([]models.StoredNote, error) {
	return r.repos.Notes(r.db).ListByWallet(ctx, walletID)
}

func (r *reportService) Entries(ctx context.Context, walletID string) ([]models.LedgerEntry, error) {
	entries, err := r.repos.Ledger(r.db).ListByWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	balance.SortChronological(entries)
	return entries, nil
}

func (r *reportService) History(ctx context.Context, walletID string) ([]balance.Point, error) {
	entries, err := r.repos.Ledger(r.db).ListByWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	return balance.Running(entries), nil
}

func (r *reportService) Messages(ctx context.Context, walletID string) ([]notes.Inbound, error) {
	list, err := r.Notes(ctx, walletID)
	if err != nil {
		return nil, err
	}
	set := make(notes.Set, len(list))
	for _, n := range list {
		set[n.ID] = n
	}
	return set.Messages(), nil
}
