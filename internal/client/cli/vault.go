package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zviewer/internal/common"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
)

var errPassphraseMismatch = errors.New("passphrases do not match")

// Unlock asks for the vault passphrase and keeps the master key in memory.
// On a new database the passphrase is asked twice and becomes the vault
// passphrase. The passphrase bytes are wiped before returning.
func (a *App) Unlock(ctx context.Context) error {
	if a.isUnlocked() {
		fmt.Fprintln(a.out, "Already unlocked")
		return nil
	}

	initialized, err := a.vault.Initialized(ctx)
	if err != nil {
		return err
	}
	if !initialized {
		fmt.Fprintln(a.out, "No vault yet; choose a passphrase to create one")
	}

	passphrase, err := getSecret(a.reader, "Enter passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	if !initialized {
		repeat, err := getSecret(a.reader, "Repeat passphrase", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(repeat)
		if !bytes.Equal(passphrase, repeat) {
			return errPassphraseMismatch
		}
	}

	key, err := a.vault.Unlock(ctx, passphrase)
	if err != nil {
		a.logger.Warn(ctx, "unlock failed", "error", err)
		return err
	}
	a.masterKey = key
	fmt.Fprintln(a.out, "Unlocked")
	return nil
}

// Lock wipes the master key. The selected wallet stays selected.
func (a *App) Lock(ctx context.Context) error {
	if !a.isUnlocked() {
		return nil
	}
	common.WipeByteArray(a.masterKey)
	a.masterKey = nil
	fmt.Fprintln(a.out, "Locked")
	return nil
}

func (a *App) requireUnlocked() error {
	if !a.isUnlocked() {
		return common.ErrorLocked
	}
	return nil
}

func (a *App) requireWallet() error {
	if err := a.requireUnlocked(); err != nil {
		return err
	}
	if a.wallet == nil {
		return common.ErrorNoWalletSelected
	}
	return nil
}
