package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/zviewer/internal/filex"
	"github.com/dmitrijs2005/zviewer/internal/ledger"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

// Export is a rendered snapshot of one wallet.
type Export struct {
	WalletID  string
	NotesJSON []byte
	LedgerCSV []byte
}

// ExportFiles are the paths Write produced.
type ExportFiles struct {
	Notes  string
	Ledger string
}

// ExportService renders wallet data for auditors and backups.
type ExportService interface {
	Render(ctx context.Context, walletID string) (*Export, error)
	// Write renders and stores the export under dir, which is created when
	// missing.
	Write(ctx context.Context, walletID, dir string) (*ExportFiles, error)
}

type exportService struct {
	reports ReportService
}

func NewExportService(reports ReportService) ExportService {
	return &exportService{reports: reports}
}

func (s *exportService) Render(ctx context.Context, walletID string) (*Export, error) {
	list, err := s.reports.Notes(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.StoredNote{}
	}
	notesJSON, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("notes json: %w", err)
	}

	entries, err := s.reports.Entries(ctx, walletID)
	if err != nil {
		return nil, err
	}
	var csvBuf bytes.Buffer
	if err := ledger.WriteCSV(&csvBuf, entries); err != nil {
		return nil, fmt.Errorf("ledger csv: %w", err)
	}

	return &Export{WalletID: walletID, NotesJSON: notesJSON, LedgerCSV: csvBuf.Bytes()}, nil
}

func (s *exportService) Write(ctx context.Context, walletID, dir string) (*ExportFiles, error) {
	exp, err := s.Render(ctx, walletID)
	if err != nil {
		return nil, err
	}

	path, err := filex.EnsureSubDir(dir)
	if err != nil {
		return nil, err
	}

	files := &ExportFiles{
		Notes:  filepath.Join(path, walletID+"-notes.json"),
		Ledger: filepath.Join(path, walletID+"-ledger.csv"),
	}
	if err := filex.WriteFileAtomic(files.Notes, exp.NotesJSON, 0o600); err != nil {
		return nil, err
	}
	if err := filex.WriteFileAtomic(files.Ledger, exp.LedgerCSV, 0o600); err != nil {
		return nil, err
	}
	return files, nil
}
