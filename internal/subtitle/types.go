package subtitle

import "errors"

// Record is a single caption block. Timing keeps the original
// "HH:MM:SS,mmm --> HH:MM:SS,mmm" token verbatim so the output file can
// reproduce the input formatting; records are immutable once parsed.
type Record struct {
	Index  int
	Timing string
	Text   string
}

var (
	// ErrNoCaptions is returned when no usable caption blocks or timeline
	// entries can be extracted from the input.
	ErrNoCaptions = errors.New("no usable caption blocks found")

	// ErrInvalidTimeline is returned when timeline input is not valid JSON or
	// misses the expected structure.
	ErrInvalidTimeline = errors.New("invalid timeline document")
)
