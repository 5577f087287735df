package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/dustin/go-humanize"
)

const zatoshiPerZEC = 100_000_000

// formatAmount renders zatoshi as ZEC with the exact zatoshi count, e.g.
// "0.00057000 ZEC (57,000 zat)".
func formatAmount(zat int64) string {
	sign := ""
	abs := zat
	if zat < 0 {
		sign = "-"
		abs = -zat
	}
	return fmt.Sprintf("%s%d.%08d ZEC (%s zat)", sign, abs/zatoshiPerZEC, abs%zatoshiPerZEC, humanize.Comma(zat))
}

func joinPools(pools []models.Pool) string {
	if len(pools) == 0 {
		return "-"
	}
	s := make([]string, len(pools))
	for i, p := range pools {
		s[i] = string(p)
	}
	return strings.Join(s, ",")
}

func formatHeight(h *uint32) string {
	if h == nil {
		return "mempool"
	}
	return fmt.Sprint(*h)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// short cuts long hex ids for tables.
func short(s string) string {
	if len(s) <= 16 {
		return s
	}
	return s[:8] + ".." + s[len(s)-6:]
}
