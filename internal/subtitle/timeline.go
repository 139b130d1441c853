package subtitle

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type timelineText struct {
	Content   string `json:"content"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
}

type timelineDocument struct {
	Materials struct {
		Texts []timelineText `json:"texts"`
	} `json:"materials"`
}

// ParseTimeline converts a structured editor timeline (a JSON document with a
// materials.texts list carrying microsecond start/end times) into caption
// records. Entries are sorted by start time; blank entries are dropped.
func ParseTimeline(content []byte) ([]Record, error) {
	var doc timelineDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeline, err)
	}
	if doc.Materials.Texts == nil {
		return nil, fmt.Errorf("%w: missing materials.texts", ErrInvalidTimeline)
	}

	texts := make([]timelineText, len(doc.Materials.Texts))
	copy(texts, doc.Materials.Texts)
	sort.SliceStable(texts, func(i, j int) bool {
		return texts[i].StartTime < texts[j].StartTime
	})

	records := make([]Record, 0, len(texts))
	for _, item := range texts {
		text := strings.TrimSpace(item.Content)
		if text == "" {
			continue
		}
		records = append(records, Record{
			Index:  len(records) + 1,
			Timing: fmt.Sprintf("%s --> %s", formatMicros(item.StartTime), formatMicros(item.EndTime)),
			Text:   text,
		})
	}

	if len(records) == 0 {
		return nil, ErrNoCaptions
	}
	return records, nil
}

// formatMicros renders a microsecond timestamp as HH:MM:SS,mmm, truncating
// to whole milliseconds.
func formatMicros(us int64) string {
	ms := us / 1_000
	hours := ms / 3_600_000
	minutes := (ms / 60_000) % 60
	seconds := (ms / 1_000) % 60
	millis := ms % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
