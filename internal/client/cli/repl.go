package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	AddWallet(ctx context.Context) error
	ListWallets(ctx context.Context) error
	UseWallet(ctx context.Context, ref string) error
	RemoveWallet(ctx context.Context, ref string) error
	Scan(ctx context.Context, args []string) error
	ScanHex(ctx context.Context, args []string) error
	Balance(ctx context.Context) error
	Notes(ctx context.Context) error
	History(ctx context.Context) error
	Messages(ctx context.Context) error
	Export(ctx context.Context) error
	Backup(ctx context.Context) error
	MemoEncode(ctx context.Context) error
	MemoDecode(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

const (
	helpLocked   = "Available commands: unlock, memo-encode, memo-decode, status, exit"
	helpUnlocked = "Available commands: lock, wallet-add, wallets, use, wallet-remove, scan, scanhex, " +
		"balance, notes, history, messages, export, backup, memo-encode, memo-decode, status, exit"
)

// runREPL reads commands from reader until EOF or exit/quit.
//
// The prompt shows the current status (from statusFn). Commands:
//
//	help                    show available commands
//	unlock | lock           open or close the vault
//	wallet-add              import a viewing key
//	wallets                 list wallets
//	use <wallet>            select the active wallet by id or name
//	wallet-remove <wallet>  delete a wallet and everything scanned for it
//	scan <txid> [height]    fetch a transaction from the node and scan it
//	scanhex [height]        scan pasted raw transaction hex
//	balance | notes | history
//	messages                received protocol messages
//	export                  write notes JSON and ledger CSV
//	backup                  upload the export to S3
//	memo-encode             build memo bytes from text
//	memo-decode <hex>...    decode one memo or a set of fragments
//	status                  node and vault status
//	exit | quit
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("zviewer%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn(helpUnlocked)
			} else {
				printlnFn(helpLocked)
			}

		case "unlock":
			cmdErr = a.Unlock(ctx)
		case "lock":
			cmdErr = a.Lock(ctx)

		case "wallet-add":
			cmdErr = a.AddWallet(ctx)
		case "wallets":
			cmdErr = a.ListWallets(ctx)
		case "use":
			if len(args) != 1 {
				printlnFn("Usage: use <wallet id or name>")
				continue
			}
			cmdErr = a.UseWallet(ctx, args[0])
		case "wallet-remove":
			if len(args) != 1 {
				printlnFn("Usage: wallet-remove <wallet id or name>")
				continue
			}
			cmdErr = a.RemoveWallet(ctx, args[0])

		case "scan":
			if len(args) == 0 || len(args) > 2 {
				printlnFn("Usage: scan <txid> [height]")
				continue
			}
			cmdErr = a.Scan(ctx, args)
		case "scanhex":
			cmdErr = a.ScanHex(ctx, args)

		case "balance":
			cmdErr = a.Balance(ctx)
		case "notes":
			cmdErr = a.Notes(ctx)
		case "history":
			cmdErr = a.History(ctx)
		case "messages":
			cmdErr = a.Messages(ctx)

		case "export":
			cmdErr = a.Export(ctx)
		case "backup":
			cmdErr = a.Backup(ctx)

		case "memo-encode":
			cmdErr = a.MemoEncode(ctx)
		case "memo-decode":
			if len(args) == 0 {
				printlnFn("Usage: memo-decode <hex> [<hex>...]")
				continue
			}
			cmdErr = a.MemoDecode(ctx, args)

		case "status":
			cmdErr = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("error:", cmdErr)
		}
	}
}
