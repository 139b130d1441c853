package translator

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	markerPattern = regexp.MustCompile(`\[(\d+)\]\s*(.*)`)

	// Cleanup patterns for structure the model sometimes echoes back even
	// though the prompt forbids it: timestamp ranges, lone timestamps, and a
	// leading bare index.
	leakedRangePattern     = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}\s*-->\s*\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}\s*`)
	leakedTimestampPattern = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}\s*`)
	leakedIndexPattern     = regexp.MustCompile(`^\d+\s`)

	lineMarkerPattern = regexp.MustCompile(`^\[?\d+\]?\.?\s*`)
)

// parseMarkedList extracts marker→text pairs from a model response. It
// reports ok only when exactly want distinct markers were found; missing
// markers within a complete count come back as empty strings.
func parseMarkedList(raw string, want int) ([]string, bool) {
	matches := markerPattern.FindAllStringSubmatch(raw, -1)

	found := make(map[int]string, len(matches))
	for _, m := range matches {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found[index] = stripLeakedStructure(m[2])
	}

	if len(found) != want {
		return nil, false
	}

	items := make([]string, want)
	for i := 0; i < want; i++ {
		items[i] = found[i+1]
	}
	return items, true
}

// parseLineList is the fallback strategy: one non-empty output line per input
// item, with any marker syntax stripped.
func parseLineList(raw string, want int) ([]string, bool) {
	items := make([]string, 0, want)
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		items = append(items, strings.TrimSpace(lineMarkerPattern.ReplaceAllString(trimmed, "")))
	}
	if len(items) != want {
		return nil, false
	}
	return items, true
}

func stripLeakedStructure(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(leakedRangePattern.ReplaceAllString(text, ""))
	text = strings.TrimSpace(leakedTimestampPattern.ReplaceAllString(text, ""))
	text = strings.TrimSpace(leakedIndexPattern.ReplaceAllString(text, ""))
	return text
}
