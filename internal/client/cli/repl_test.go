package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	unlocked bool
	failWith error

	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failWith
}

func (f *fakeExec) isUnlocked() bool { return f.unlocked }

func (f *fakeExec) Unlock(context.Context) error {
	f.unlocked = true
	return f.record("unlock")
}

func (f *fakeExec) Lock(context.Context) error {
	f.unlocked = false
	return f.record("lock")
}

func (f *fakeExec) AddWallet(context.Context) error   { return f.record("wallet-add") }
func (f *fakeExec) ListWallets(context.Context) error { return f.record("wallets") }

func (f *fakeExec) UseWallet(_ context.Context, ref string) error {
	return f.record("use " + ref)
}

func (f *fakeExec) RemoveWallet(_ context.Context, ref string) error {
	return f.record("wallet-remove " + ref)
}

func (f *fakeExec) Scan(_ context.Context, args []string) error {
	return f.record("scan " + strings.Join(args, " "))
}

func (f *fakeExec) ScanHex(_ context.Context, args []string) error {
	return f.record(strings.TrimSpace("scanhex " + strings.Join(args, " ")))
}

func (f *fakeExec) Balance(context.Context) error    { return f.record("balance") }
func (f *fakeExec) Notes(context.Context) error      { return f.record("notes") }
func (f *fakeExec) History(context.Context) error    { return f.record("history") }
func (f *fakeExec) Messages(context.Context) error   { return f.record("messages") }
func (f *fakeExec) Export(context.Context) error     { return f.record("export") }
func (f *fakeExec) Backup(context.Context) error     { return f.record("backup") }
func (f *fakeExec) MemoEncode(context.Context) error { return f.record("memo-encode") }

func (f *fakeExec) MemoDecode(_ context.Context, args []string) error {
	return f.record("memo-decode " + strings.Join(args, " "))
}

func (f *fakeExec) Status(context.Context) error { return f.record("status") }

// capturePrintln collects REPL output for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	var lines []string
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"unlock",
		"wallet-add",
		"wallets",
		"use main",
		"scan abcd 100",
		"scanhex",
		"scanhex 7",
		"balance",
		"notes",
		"history",
		"messages",
		"export",
		"backup",
		"memo-encode",
		"memo-decode 01 02",
		"status",
		"wallet-remove main",
		"lock",
		"exit",
		"balance",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"unlock", "wallet-add", "wallets", "use main", "scan abcd 100", "scanhex", "scanhex 7",
		"balance", "notes", "history", "messages", "export", "backup", "memo-encode", "memo-decode 01 02",
		"status", "wallet-remove main", "lock",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := capturePrintln(t)

	input := "use\nscan\nscan a b c\nmemo-decode\nwallet-remove\nfoobar\n\nquit\n"
	exec := &fakeExec{unlocked: true}
	runREPL(context.Background(), exec, func() string { return " (s)" }, bufio.NewReader(strings.NewReader(input)))

	assert.Empty(t, exec.calls)
	all := strings.Join(*out, "")
	assert.Contains(t, all, "Usage: use <wallet id or name>")
	assert.Contains(t, all, "Usage: scan <txid> [height]")
	assert.Contains(t, all, "Usage: memo-decode")
	assert.Contains(t, all, "Unknown command: foobar")
	assert.Contains(t, all, "zviewer (s)> ")
	assert.Contains(t, all, "Bye!")
}

func TestRunREPL_HelpDependsOnLock(t *testing.T) {
	out := capturePrintln(t)
	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, bufio.NewReader(strings.NewReader("help\n")))
	assert.Contains(t, strings.Join(*out, ""), helpLocked)

	*out = nil
	runREPL(context.Background(), &fakeExec{unlocked: true}, func() string { return "" }, bufio.NewReader(strings.NewReader("help")))
	assert.Contains(t, strings.Join(*out, ""), helpUnlocked)
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := capturePrintln(t)
	exec := &fakeExec{failWith: errors.New("vault is locked")}

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("balance\nnotes\n")))

	assert.Equal(t, []string{"balance", "notes"}, exec.calls)
	assert.Contains(t, strings.Join(*out, ""), "error: vault is locked")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrintln(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("balance\n")))
	assert.Empty(t, exec.calls)
}
