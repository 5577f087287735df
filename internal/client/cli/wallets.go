package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/zviewer/internal/common"
)

// AddWallet imports a viewing key under a name. The key is read without
// echo. The first wallet added becomes the active one.
func (a *App) AddWallet(ctx context.Context) error {
	if err := a.requireUnlocked(); err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter wallet name", a.out)
	if err != nil {
		return err
	}
	key, err := getSecret(a.reader, "Enter viewing key", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	w, err := a.wallets.Add(ctx, name, strings.TrimSpace(string(key)), a.masterKey)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added %s (%s, %s, pools: %s)\n", w.Name, w.KeyKind, w.Network, joinPools(w.Capability.Pools()))
	if a.wallet == nil {
		a.wallet = w
	}
	return nil
}

func (a *App) ListWallets(ctx context.Context) error {
	list, err := a.wallets.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No wallets. Add one with wallet-add")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tNETWORK\tKIND\tPOOLS")
	for _, w := range list {
		mark := ""
		if a.wallet != nil && a.wallet.ID == w.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", mark, w.ID, w.Name, w.Network, w.KeyKind, joinPools(w.Capability.Pools()))
	}
	return tw.Flush()
}

func (a *App) UseWallet(ctx context.Context, ref string) error {
	w, err := a.wallets.Find(ctx, ref)
	if err != nil {
		return fmt.Errorf("wallet %q: %w", ref, err)
	}
	a.wallet = w
	fmt.Fprintf(a.out, "Using %s (%s)\n", w.Name, w.ID)
	return nil
}

// RemoveWallet deletes a wallet after the user types its name again.
func (a *App) RemoveWallet(ctx context.Context, ref string) error {
	if err := a.requireUnlocked(); err != nil {
		return err
	}
	w, err := a.wallets.Find(ctx, ref)
	if err != nil {
		return fmt.Errorf("wallet %q: %w", ref, err)
	}

	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Type %q to delete the wallet and its notes", w.Name), a.out)
	if err != nil {
		return err
	}
	if confirm != w.Name {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.wallets.Remove(ctx, w.ID); err != nil {
		return err
	}
	if a.wallet != nil && a.wallet.ID == w.ID {
		a.wallet = nil
	}
	fmt.Fprintf(a.out, "Removed %s\n", w.Name)
	return nil
}
