package wordcount

import "regexp"

var (
	ideographPattern = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	letterRunPattern = regexp.MustCompile(`[a-zA-ZÀ-ỹ]+`)
)

// Measure returns the script-aware length of a text fragment: one unit per
// CJK ideograph plus one unit per contiguous run of Latin or diacritic
// letters. This is the single yardstick used to decide whether a translated
// line is longer than its original.
func Measure(text string) int {
	return len(ideographPattern.FindAllStringIndex(text, -1)) +
		len(letterRunPattern.FindAllStringIndex(text, -1))
}
