package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/models"
)

var poolOrder = []models.Pool{models.PoolTransparent, models.PoolSapling, models.PoolOrchard}

func (a *App) Balance(ctx context.Context) error {
	if err := a.requireWallet(); err != nil {
		return err
	}
	b, err := a.reports.Balance(ctx, a.wallet.ID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, p := range poolOrder {
		if !a.wallet.Capability.CanView(p) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", p, formatAmount(int64(b.Get(p))))
	}
	fmt.Fprintf(tw, "total\t%s\n", formatAmount(int64(b.Total)))
	return tw.Flush()
}

func (a *App) Notes(ctx context.Context) error {
	if err := a.requireWallet(); err != nil {
		return err
	}
	list, err := a.reports.Notes(ctx, a.wallet.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notes")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TXID\tPOOL\t#\tVALUE\tSTATE\tMEMO")
	for _, n := range list {
		state := "unspent"
		switch {
		case !n.Decrypted:
			state = "placeholder"
		case n.IsSpent():
			state = "spent in " + short(*n.SpentTxID)
		}
		memo := ""
		if n.Memo != nil {
			memo = fmt.Sprintf("%q", *n.Memo)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", short(n.TxID), n.Pool, n.OutputIndex, formatAmount(int64(n.Value)), state, memo)
	}
	return tw.Flush()
}

func (a *App) History(ctx context.Context) error {
	if err := a.requireWallet(); err != nil {
		return err
	}
	points, err := a.reports.History(ctx, a.wallet.ID)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintln(a.out, "No transactions")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTXID\tHEIGHT\tCHANGE\tBALANCE")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", formatTime(p.Timestamp), short(p.TxID), formatHeight(p.Height),
			formatAmount(p.NetChange), formatAmount(p.Balance))
	}
	return tw.Flush()
}

func (a *App) Messages(ctx context.Context) error {
	if err := a.requireWallet(); err != nil {
		return err
	}
	msgs, err := a.reports.Messages(ctx, a.wallet.ID)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tNONCE\tTEXT")
	for _, m := range msgs {
		text := fmt.Sprintf("%q", m.Text)
		if !m.Complete {
			text = fmt.Sprintf("(%d of %d fragments)", m.Have, m.Total)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", formatTime(time.Unix(int64(m.Timestamp), 0)), m.Type, m.Nonce, text)
	}
	return tw.Flush()
}
