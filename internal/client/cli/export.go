package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/zviewer/internal/client/backup"
	"github.com/dustin/go-humanize"
)

// Export writes the notes JSON and ledger CSV of the active wallet into the
// configured export directory.
func (a *App) Export(ctx context.Context) error {
	if err := a.requireWallet(); err != nil {
		return err
	}
	files, err := a.exports.Write(ctx, a.wallet.ID, a.config.ExportDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %s\nWrote %s\n", files.Notes, files.Ledger)
	return nil
}

// Backup uploads the export of the active wallet to the configured bucket,
// reads it back and prints links valid for a short while.
func (a *App) Backup(ctx context.Context) error {
	if err := a.requireWallet(); err != nil {
		return err
	}
	if !a.backup.Configured() {
		return fmt.Errorf("%w: set ZVIEWER_S3_BUCKET or s3.bucket in the config file", backup.ErrNotConfigured)
	}

	exp, err := a.exports.Render(ctx, a.wallet.ID)
	if err != nil {
		return err
	}
	res, err := a.backup.Upload(ctx, exp)
	if err != nil {
		return err
	}
	if err := a.backup.Verify(ctx, res, exp); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s (%s)\n  %s\n", res.Notes.Key, humanize.Bytes(uint64(len(exp.NotesJSON))), res.Notes.URL)
	fmt.Fprintf(a.out, "Uploaded %s (%s)\n  %s\n", res.Ledger.Key, humanize.Bytes(uint64(len(exp.LedgerCSV))), res.Ledger.URL)
	return nil
}
