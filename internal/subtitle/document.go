package subtitle

import (
	"fmt"
	"strings"
)

const summaryExcerptLimit = 500

// Render writes records back out as SRT text in ascending slice order.
// Dot millisecond separators are normalized to commas on the way out.
func Render(records []Record) string {
	var b strings.Builder
	for _, rec := range records {
		timing := strings.ReplaceAll(rec.Timing, ".", ",")
		fmt.Fprintf(&b, "%d\n%s\n%s\n\n", rec.Index, timing, strings.TrimSpace(rec.Text))
	}
	return b.String()
}

// Summary holds three excerpts of a translated document, used as source
// material for caption and thumbnail generation.
type Summary struct {
	Start  string
	Middle string
	End    string
}

// Summarize extracts the opening 30%, the 35-65% middle band, and the final
// 30% of the records, each joined by single spaces and capped at 500
// characters.
func Summarize(records []Record) Summary {
	total := len(records)
	return Summary{
		Start:  joinTexts(records[:int(float64(total)*0.3)]),
		Middle: joinTexts(records[int(float64(total)*0.35):int(float64(total)*0.65)]),
		End:    joinTexts(records[int(float64(total)*0.7):]),
	}
}

func joinTexts(records []Record) string {
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		parts = append(parts, rec.Text)
	}
	joined := strings.Join(parts, " ")
	if runes := []rune(joined); len(runes) > summaryExcerptLimit {
		return string(runes[:summaryExcerptLimit])
	}
	return joined
}
