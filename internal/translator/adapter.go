package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/video-tools/server/pkg/log"
	"github.com/video-tools/server/pkg/wordcount"
)

const defaultShortenAttempts = 3

// Adapter wraps one remote translation call: prompt construction, structured
// response parsing with a line-split fallback, and length-compliance
// enforcement via iterative shortening.
type Adapter struct {
	gen             Generator
	shortenAttempts int
}

func NewAdapter(gen Generator) *Adapter {
	return &Adapter{
		gen:             gen,
		shortenAttempts: defaultShortenAttempts,
	}
}

// TranslateBatch translates req.Texts and returns exactly one output per
// input, each at or under the input's word count. Parsing failures surface
// as ErrCountMismatch; a blocked or empty remote response surfaces as the
// generator's error. Length overages never fail the batch.
func (a *Adapter) TranslateBatch(ctx context.Context, apiKey string, req BatchRequest) ([]string, error) {
	raw, err := a.gen.Generate(ctx, apiKey, buildBatchPrompt(req))
	if err != nil {
		return nil, err
	}

	want := len(req.Texts)
	items, ok := parseMarkedList(raw, want)
	if !ok {
		items, ok = parseLineList(raw, want)
	}
	if !ok {
		return nil, fmt.Errorf("%w: expected %d items, response: %q", ErrCountMismatch, want, raw)
	}

	for i, item := range items {
		original := req.Texts[i]
		if wordcount.Measure(item) > wordcount.Measure(original) {
			items[i] = a.shorten(ctx, apiKey, original, item)
		}
	}
	return items, nil
}

// shorten asks the model to compress the translation until it fits the
// original's word count, up to shortenAttempts times, then falls back to a
// deterministic truncation. Remote failures stop the loop early; the
// truncation still guarantees compliance.
func (a *Adapter) shorten(ctx context.Context, apiKey string, original string, translation string) string {
	target := wordcount.Measure(original)

	current := translation
	for attempt := 0; attempt < a.shortenAttempts; attempt++ {
		if wordcount.Measure(current) <= target {
			return current
		}
		shortened, err := a.gen.Generate(ctx, apiKey, buildShortenPrompt(original, current))
		if err != nil {
			log.Warn("Shorten attempt failed, falling back to truncation: %v", err)
			break
		}
		current = strings.TrimSpace(shortened)
	}

	if wordcount.Measure(current) > target {
		words := strings.Fields(current)
		if len(words) > target {
			current = strings.Join(words[:target], " ")
		}
	}
	return current
}
