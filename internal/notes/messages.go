package notes

import (
	"sort"

	"github.com/dmitrijs2005/zviewer/internal/memo"
)

// Inbound is a protocol message received by the wallet. A fragmented message
// is Complete once every fragment has arrived; until then Text is empty.
type Inbound struct {
	Type      memo.Type
	Timestamp uint32
	Nonce     uint32
	Text      string
	Complete  bool
	Have      int
	Total     int
	NoteIDs   []string
}

type fragmentKey struct {
	timestamp, nonce uint32
}

// Messages collects the protocol messages carried by the set's notes, oldest
// first. Fragments sharing a timestamp and nonce are joined into one message;
// a fragment index seen twice counts once.
func (s Set) Messages() []Inbound {
	ids := make([]string, 0, len(s))
	for id, n := range s {
		if n.Message != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var out []Inbound
	groups := map[fragmentKey]int{}
	parts := map[fragmentKey]map[uint16]*memo.Message{}

	for _, id := range ids {
		m := s[id].Message
		if m.Type != memo.TypeFragment || m.Fragment == nil {
			out = append(out, Inbound{
				Type: m.Type, Timestamp: m.Timestamp, Nonce: m.Nonce, Text: m.Content,
				Complete: true, Have: 1, Total: 1, NoteIDs: []string{id},
			})
			continue
		}

		k := fragmentKey{m.Timestamp, m.Nonce}
		i, ok := groups[k]
		if !ok {
			i = len(out)
			groups[k] = i
			parts[k] = map[uint16]*memo.Message{}
			out = append(out, Inbound{
				Type: memo.TypeFragment, Timestamp: m.Timestamp, Nonce: m.Nonce,
				Total: int(m.Fragment.Total),
			})
		}
		out[i].NoteIDs = append(out[i].NoteIDs, id)
		if _, seen := parts[k][m.Fragment.Index]; !seen {
			parts[k][m.Fragment.Index] = m
		}
	}

	for k, i := range groups {
		frags := make([]*memo.Message, 0, len(parts[k]))
		for _, f := range parts[k] {
			frags = append(frags, f)
		}
		out[i].Have = len(frags)
		if len(frags) != out[i].Total {
			continue
		}
		if text, err := memo.Reassemble(frags); err == nil {
			out[i].Text = text
			out[i].Complete = true
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Timestamp != out[b].Timestamp {
			return out[a].Timestamp < out[b].Timestamp
		}
		return out[a].Nonce < out[b].Nonce
	})
	return out
}
