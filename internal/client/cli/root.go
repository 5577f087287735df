package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the prompt suffix: active wallet, lock state and mode.
func (a *App) getStatus() string {
	var parts []string
	if a.wallet != nil {
		parts = append(parts, a.wallet.Name)
	}
	if !a.isUnlocked() {
		parts = append(parts, "locked")
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, " "))
}

// Root runs the interactive session: an unlock prompt, the online watcher
// and the REPL. It returns when the user exits or ctx ends.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to zviewer (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if err := a.Unlock(ctx); err != nil {
		fmt.Fprintln(a.out, "error:", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
