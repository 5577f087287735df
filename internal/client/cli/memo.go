package cli

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/common"
	"github.com/dmitrijs2005/zviewer/internal/memo"
)

// nowFn is the clock used for memo timestamps.
var nowFn = time.Now

// MemoEncode reads text and prints the memo (or fragments) as hex, one per
// line. All fragments share a random nonce.
func (a *App) MemoEncode(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Enter memo text", a.out)
	if err != nil {
		return err
	}

	nonce := binary.BigEndian.Uint32(common.GenerateRandByteArray(4))
	memos, err := memo.EncodeMessage(text, uint32(nowFn().Unix()), nonce)
	if err != nil {
		return err
	}

	if len(memos) > 1 {
		fmt.Fprintf(a.out, "%d fragments, nonce %d\n", len(memos), nonce)
	}
	for _, m := range memos {
		fmt.Fprintln(a.out, hex.EncodeToString(m))
	}
	return nil
}

// MemoDecode decodes each hex argument. When every argument is a fragment
// the set is reassembled into the original text.
func (a *App) MemoDecode(ctx context.Context, args []string) error {
	msgs := make([]*memo.Message, 0, len(args))
	fragments := 0
	for _, arg := range args {
		raw, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("%w: hex: %v", memo.ErrMemoFormat, err)
		}
		m, err := memo.Decode(raw)
		if err != nil {
			return err
		}
		if m.Type == memo.TypeFragment {
			fragments++
		}
		msgs = append(msgs, m)
	}

	if fragments > 0 && fragments == len(msgs) {
		text, err := memo.Reassemble(msgs)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "message of %d fragments, nonce %d, sent %s\n%s\n",
			len(msgs), msgs[0].Nonce, formatTime(time.Unix(int64(msgs[0].Timestamp), 0)), text)
		return nil
	}

	for _, m := range msgs {
		head := fmt.Sprintf("%s, nonce %d, sent %s", m.Type, m.Nonce, formatTime(time.Unix(int64(m.Timestamp), 0)))
		if m.Fragment != nil {
			head += fmt.Sprintf(", fragment %d/%d", m.Fragment.Index+1, m.Fragment.Total)
		}
		fmt.Fprintf(a.out, "%s\n%s\n", head, m.Content)
	}
	return nil
}
