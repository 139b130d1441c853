package translator

import (
	"fmt"
	"strings"

	"github.com/video-tools/server/pkg/wordcount"
)

// introPrompt is the policy for the opening batch: hook the viewer fast and
// keep every translated line at or under the original's word count.
const introPrompt = `You are the lead scriptwriter for a video recap channel, rewriting the opening of a script as a sharp 30-second intro.
RULES:
1. Translate freely and creatively; surprise and humor are welcome.
2. The first few lines must set up a strong hook: a shocking problem, a big question, or a clever tease.
3. HARD LENGTH RULE: each translated line must use the SAME number of words or FEWER than its original line.
4. Keep a casual, conversational voice throughout.
`

// narrationPrompt is the policy for every batch after the first.
const narrationPrompt = `You are the head scriptwriter for a video recap channel, writing natural narration lines.
RULES:
1. Keep one consistent narrator personality across all lines.
2. Pace the storytelling: know when to joke and when to slow down.
3. HARD LENGTH RULE: each translated line must use the SAME number of words or FEWER than its original line.
4. Occasionally add a short, witty aside where it fits.
`

// buildBatchPrompt tags every input item with a 1-based positional marker and
// its word count, and instructs the model to echo the markers back unchanged.
func buildBatchPrompt(req BatchRequest) string {
	var b strings.Builder

	if req.Intro {
		b.WriteString(introPrompt)
	} else {
		b.WriteString(narrationPrompt)
	}

	if req.SourceLanguage != "" {
		fmt.Fprintf(&b, "\nThe source language is %s.\n", req.SourceLanguage)
	}

	if req.PreviousContext != "" {
		b.WriteString("\n<context>\n")
		b.WriteString(req.PreviousContext)
		b.WriteString("\n</context>\n")
	}

	b.WriteString("\nFORMAT RULES (MANDATORY):\n")
	b.WriteString("- Reply with a numbered list using exactly the markers you received.\n")
	b.WriteString("- Example: given \"[1] text1\\n[2] text2\", reply \"[1] translation1\\n[2] translation2\".\n")
	b.WriteString("- Do not add any other characters, word counts, or notes.\n")

	b.WriteString("\nText to translate:\n---\n")
	for i, text := range req.Texts {
		flat := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
		fmt.Fprintf(&b, "[%d] %s (original word count: %d)\n", i+1, flat, wordcount.Measure(flat))
	}
	b.WriteString("---")

	return b.String()
}

// buildShortenPrompt asks the model to compress a too-long translation down
// to the original's word count while keeping the meaning.
func buildShortenPrompt(original string, current string) string {
	originalCount := wordcount.Measure(original)
	return fmt.Sprintf(`Shorten the translated line below to at most %d words while keeping the core meaning.
- Original line: "%s" (%d words)
- Current translation: "%s" (%d words)
Return only the shortened line, no explanations:`,
		originalCount,
		original, originalCount,
		current, wordcount.Measure(current))
}
