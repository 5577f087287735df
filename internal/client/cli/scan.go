package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/zviewer/internal/client/services"
)

func parseHeight(s string) (*uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid height %q", s)
	}
	h := uint32(v)
	return &h, nil
}

// Scan fetches args[0] from the node and scans it for the active wallet.
// An optional args[1] overrides the height reported by the node.
func (a *App) Scan(ctx context.Context, args []string) error {
	if err := a.requireWallet(); err != nil {
		return err
	}
	var height *uint32
	if len(args) > 1 {
		h, err := parseHeight(args[1])
		if err != nil {
			return err
		}
		height = h
	}
	if a.Mode() != ModeOnline {
		fmt.Fprintln(a.out, "Node looks offline, trying anyway...")
	}

	rep, err := a.scans.ScanTxID(ctx, a.wallet.ID, args[0], height, a.masterKey)
	if err != nil {
		return err
	}
	a.printReport(rep)
	return nil
}

// ScanHex scans a pasted raw transaction. Works without a node.
func (a *App) ScanHex(ctx context.Context, args []string) error {
	if err := a.requireWallet(); err != nil {
		return err
	}
	var height *uint32
	if len(args) > 0 {
		h, err := parseHeight(args[0])
		if err != nil {
			return err
		}
		height = h
	}

	raw, err := GetMultiline(a.reader, "Paste raw transaction hex", a.out)
	if err != nil {
		return err
	}
	raw = strings.Join(strings.Fields(raw), "")

	rep, err := a.scans.ScanHex(ctx, a.wallet.ID, raw, height, a.masterKey)
	if err != nil {
		return err
	}
	a.printReport(rep)
	return nil
}

func (a *App) printReport(rep *services.ScanReport) {
	fmt.Fprintf(a.out, "tx %s (%s) height %s\n", rep.TxID, rep.Epoch.Name, formatHeight(rep.Entry.Height))
	fmt.Fprintf(a.out, "  outputs: %d, new notes: %d, spends matched: %d, pending: %d\n",
		len(rep.Notes), len(rep.Inserted), len(rep.Matched), rep.Pending)
	for _, n := range rep.Notes {
		if n.Plaintext == nil {
			continue
		}
		line := fmt.Sprintf("  + %s #%d %s", n.Pool, n.OutputIndex, formatAmount(int64(n.Plaintext.Value)))
		if n.Plaintext.Memo != nil && *n.Plaintext.Memo != "" {
			line += fmt.Sprintf(" memo %q", *n.Plaintext.Memo)
		}
		fmt.Fprintln(a.out, line)
	}
	if len(rep.Resolved) > 0 {
		fmt.Fprintf(a.out, "  resolved earlier spends: %s\n", strings.Join(rep.Resolved, ", "))
	}
	for _, c := range rep.Conflicts {
		fmt.Fprintf(a.out, "  ! %v\n", c)
	}
	fmt.Fprintf(a.out, "  net change: %s\n", formatAmount(rep.Entry.NetChange))
}
