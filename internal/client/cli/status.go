package cli

import (
	"context"
	"fmt"
)

// Status prints the vault state, the active wallet and what the node reports.
func (a *App) Status(ctx context.Context) error {
	vault := "locked"
	if a.isUnlocked() {
		vault = "unlocked"
	}
	fmt.Fprintf(a.out, "vault:   %s\n", vault)

	if a.wallet != nil {
		fmt.Fprintf(a.out, "wallet:  %s (%s, %s)\n", a.wallet.Name, a.wallet.ID, a.wallet.Network)
	} else {
		fmt.Fprintln(a.out, "wallet:  none selected")
	}

	fmt.Fprintf(a.out, "node:    %s (%s, %s)\n", a.config.RPCAddress(), a.config.Network, a.Mode())
	if a.node == nil || a.Mode() != ModeOnline {
		return nil
	}

	info, err := a.node.GetBlockchainInfo(ctx)
	if err != nil {
		a.setMode(ctx, ModeOffline)
		return err
	}
	fmt.Fprintf(a.out, "chain:   %s, %d blocks, tip %s\n", info.Chain, info.Blocks, info.BestBlockHash)
	return nil
}
