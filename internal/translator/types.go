package translator

import (
	"context"
	"errors"
)

// Generator is the minimal surface of the remote generative-language client.
// The API key is passed per call so workers can rotate credentials.
type Generator interface {
	Generate(ctx context.Context, apiKey string, prompt string) (string, error)
}

// BatchRequest describes one remote translation call.
//
// Texts: original caption texts in batch order
// Intro: batch 1 uses the intro prompt policy
// PreviousContext: concatenated original text of the worker's previous batch
// SourceLanguage: detected language of the source document, may be empty
type BatchRequest struct {
	Texts           []string
	Intro           bool
	PreviousContext string
	SourceLanguage  string
}

// ErrCountMismatch is returned when neither parsing strategy yields exactly
// one translation per input item.
var ErrCountMismatch = errors.New("translation count mismatch")

// FailedLineText is the sentinel written into the result table for every
// record of a batch whose retries were exhausted.
const FailedLineText = "[translation failed]"
