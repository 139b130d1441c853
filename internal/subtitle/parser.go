package subtitle

import (
	"regexp"
	"strconv"
	"strings"
)

// blockPattern matches one SRT caption block: a numeric index line, a timing
// line with comma or dot millisecond separators (1-3 fraction digits), then
// one or more text lines up to a blank line or end of input.
var blockPattern = regexp.MustCompile(
	`(\d+)\n(\d{2}:\d{2}:\d{2}[,.]\d{1,3}\s*-->\s*\d{2}:\d{2}:\d{2}[,.]\d{1,3})\n([\s\S]+?)(?:\n\n|\z)`)

// ParseSRT extracts caption records from raw SRT text. Malformed regions are
// skipped silently; only positively matched blocks are returned. A leading
// byte-order marker is stripped and line endings are normalized first.
func ParseSRT(content string) ([]Record, error) {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)

	matches := blockPattern.FindAllStringSubmatch(content, -1)
	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		records = append(records, Record{
			Index:  index,
			Timing: strings.TrimSpace(m[2]),
			Text:   strings.TrimSpace(m[3]),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoCaptions
	}
	return records, nil
}
