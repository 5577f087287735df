package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/client/backup"
	"github.com/dmitrijs2005/zviewer/internal/client/client"
	"github.com/dmitrijs2005/zviewer/internal/client/config"
	cm "github.com/dmitrijs2005/zviewer/internal/client/models"
	"github.com/dmitrijs2005/zviewer/internal/client/services"
	"github.com/dmitrijs2005/zviewer/internal/logging"
	"github.com/dmitrijs2005/zviewer/internal/scanner"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// uploader is the part of backup.Service the CLI uses.
type uploader interface {
	Configured() bool
	Upload(ctx context.Context, exp *services.Export) (*backup.Result, error)
	Verify(ctx context.Context, res *backup.Result, exp *services.Export) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	vault   services.VaultService
	wallets services.WalletService
	scans   services.ScanService
	reports services.ReportService
	exports services.ExportService
	backup  uploader
	node    client.NodeClient
	closers []func() error

	masterKey []byte
	wallet    *cm.Wallet

	mu   sync.Mutex
	mode Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local store, prepares the node client and wires the
// services. Nothing talks to the node until the first command or ping.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := client.OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "dsn", c.DatabaseDSN, "error", err)
		return nil, err
	}

	node, err := client.NewRPCClient(c.RPCAddress(), c.RPCUser, c.RPCPassword)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	wallets := services.NewWalletService(store.DB, store.Repos, logger)
	reports := services.NewReportService(store.DB, store.Repos)

	return &App{
		config:  c,
		logger:  logger,
		vault:   services.NewVaultService(store.DB, store.Repos),
		wallets: wallets,
		scans:   services.NewScanService(store.DB, store.Repos, wallets, scanner.New(), node, logger),
		reports: reports,
		exports: services.NewExportService(reports),
		backup:  backup.NewService(c.S3, logger),
		node:    node,
		closers: []func() error{node.Close, store.Close},
		mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Close releases the node client and the database.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "close", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isUnlocked() bool {
	return a.masterKey != nil
}

// checkOnline pings the node once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	if a.node == nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.node.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
	} else {
		a.setMode(ctx, ModeOnline)
	}
}

// StartOnlineStatusWatcher pings the node every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
