package translator

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/video-tools/server/internal/subtitle"
	"github.com/video-tools/server/pkg/log"
)

const (
	// DefaultBatchSize is the maximum number of records per remote call.
	DefaultBatchSize = 15

	// batchAttempts bounds how often a worker retries one batch before
	// writing sentinel text; each failure advances the credential cursor.
	batchAttempts = 2
)

// Batch is a contiguous slice of the caption sequence processed as one
// remote call. Batch 1 is the intro batch.
type Batch struct {
	Number  int
	Records []subtitle.Record
}

// PartitionBatches splits records into contiguous batches of at most size
// records. Concatenating the batches in number order reproduces the input
// exactly.
func PartitionBatches(records []subtitle.Record, size int) []Batch {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([]Batch, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, Batch{
			Number:  len(batches) + 1,
			Records: records[start:end],
		})
	}
	return batches
}

// Result is one translated row of the result table.
type Result struct {
	Index  int
	Timing string
	Text   string
}

// BatchTranslator is the adapter surface the pool drives.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, apiKey string, req BatchRequest) ([]string, error)
}

// PoolConfig configures a translation pool run.
type PoolConfig struct {
	Credentials    []string
	BatchSize      int
	SourceLanguage string
}

// Pool fans batches out across one worker per credential and merges the
// completed rows into a single table. Workers race for queue items, so
// processing order is unordered; the table keyed by record index is the only
// ordering contract.
type Pool struct {
	adapter  BatchTranslator
	cfg      PoolConfig
	progress *Progress
}

func NewPool(adapter BatchTranslator, cfg PoolConfig, progress *Progress) *Pool {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if progress == nil {
		progress = NewProgress(0, nil)
	}
	return &Pool{
		adapter:  adapter,
		cfg:      cfg,
		progress: progress,
	}
}

type batchResult struct {
	batch Batch
	texts []string
}

// Run translates all records and returns the merged result table. It blocks
// until every worker has drained the queue and exited; after that the table
// holds every input index exactly once. Exhausted retries for a batch yield
// sentinel rows instead of aborting the run.
func (p *Pool) Run(ctx context.Context, records []subtitle.Record) map[int]Result {
	batches := PartitionBatches(records, p.cfg.BatchSize)

	queue := make(chan Batch, len(batches))
	for _, batch := range batches {
		queue <- batch
	}
	close(queue)

	results := make(chan batchResult, len(batches))

	// Single merge goroutine owns the table; workers never touch it.
	table := make(map[int]Result, len(records))
	merged := make(chan struct{})
	go func() {
		defer close(merged)
		for br := range results {
			for i, rec := range br.batch.Records {
				table[rec.Index] = Result{
					Index:  rec.Index,
					Timing: rec.Timing,
					Text:   br.texts[i],
				}
			}
		}
	}()

	g := new(errgroup.Group)
	for i := range p.cfg.Credentials {
		w := &worker{pool: p, id: i, cursor: i}
		g.Go(func() error {
			w.run(ctx, queue, results)
			return nil
		})
	}
	_ = g.Wait()

	close(results)
	<-merged
	return table
}

// worker state is owned by exactly one goroutine, so the credential cursor
// and carried context need no synchronization.
type worker struct {
	pool   *Pool
	id     int
	cursor int

	// previousContext is the concatenated original text of this worker's own
	// previous successfully-processed batch, not a globally ordered context.
	previousContext string
}

func (w *worker) run(ctx context.Context, queue <-chan Batch, results chan<- batchResult) {
	for {
		select {
		case batch, ok := <-queue:
			if !ok {
				return
			}
			w.process(ctx, batch, results)
		default:
			// Queue drained; exit promptly instead of waiting.
			return
		}
	}
}

func (w *worker) process(ctx context.Context, batch Batch, results chan<- batchResult) {
	texts := make([]string, len(batch.Records))
	for i, rec := range batch.Records {
		texts[i] = rec.Text
	}

	translated, ok := w.translate(ctx, batch, texts)
	if ok {
		w.previousContext = strings.Join(texts, " ")
	} else {
		translated = make([]string, len(texts))
		for i := range translated {
			translated[i] = FailedLineText
		}
	}

	results <- batchResult{batch: batch, texts: translated}
	w.pool.progress.Update(len(batch.Records))
}

// translate attempts the batch with the worker's current credential,
// advancing the cursor (wrapping) after every failure, up to batchAttempts
// total attempts.
func (w *worker) translate(ctx context.Context, batch Batch, texts []string) ([]string, bool) {
	creds := w.pool.cfg.Credentials
	for attemptsLeft := batchAttempts; attemptsLeft > 0; attemptsLeft-- {
		apiKey := creds[w.cursor%len(creds)]
		out, err := w.pool.adapter.TranslateBatch(ctx, apiKey, BatchRequest{
			Texts:           texts,
			Intro:           batch.Number == 1,
			PreviousContext: w.previousContext,
			SourceLanguage:  w.pool.cfg.SourceLanguage,
		})
		if err == nil {
			return out, true
		}
		log.Warn("Worker %d: batch %d failed (%v), rotating credential", w.id, batch.Number, err)
		w.cursor++
	}
	return nil, false
}
