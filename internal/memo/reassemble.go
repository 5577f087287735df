package memo

import (
	"fmt"
	"sort"
	"strings"
)

// Reassemble joins a complete fragment set into the original text. Fragments
// may come in any order. A missing, duplicated or foreign fragment fails the
// whole set; partial messages are never returned.
func Reassemble(fragments []*Message) (string, error) {
	if len(fragments) == 0 {
		return "", nil
	}

	for _, f := range fragments {
		if f == nil || f.Type != TypeFragment || f.Fragment == nil {
			return "", fmt.Errorf("%w: non-fragment message in fragment list", ErrFragmentSet)
		}
	}

	ts, nonce := fragments[0].Timestamp, fragments[0].Nonce
	for _, f := range fragments {
		if f.Timestamp != ts || f.Nonce != nonce {
			return "", fmt.Errorf("%w: fragments have different timestamp or nonce", ErrFragmentSet)
		}
	}

	sorted := make([]*Message, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fragment.Index < sorted[j].Fragment.Index
	})

	total := int(sorted[0].Fragment.Total)
	if len(sorted) != total {
		return "", fmt.Errorf("%w: have %d fragments, expected %d", ErrFragmentSet, len(sorted), total)
	}

	var b strings.Builder
	for i, f := range sorted {
		if int(f.Fragment.Total) != total {
			return "", fmt.Errorf("%w: inconsistent total fragments", ErrFragmentSet)
		}
		if int(f.Fragment.Index) != i {
			return "", fmt.Errorf("%w: expected fragment index %d, got %d", ErrFragmentSet, i, f.Fragment.Index)
		}
		b.WriteString(f.Content)
	}

	return b.String(), nil
}
