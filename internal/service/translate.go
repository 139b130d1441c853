package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/video-tools/server/internal/jobs"
	"github.com/video-tools/server/internal/subtitle"
	"github.com/video-tools/server/internal/translator"
	"github.com/video-tools/server/pkg/log"
)

var (
	ErrNoCredentials = errors.New("no api credentials configured")
	ErrEmptyContent  = errors.New("content is required")
)

// TranslateConfig carries the knobs the translation pipeline needs.
type TranslateConfig struct {
	Credentials   []string
	BatchSize     int
	CaptionPrefix string
	CaptionSuffix string
}

// TranslateService owns subtitle translation jobs: synchronous validation at
// submit, then a background pipeline of pool run, reassembly, and marketing
// text generation.
type TranslateService struct {
	cfg      TranslateConfig
	gen      translator.Generator
	adapter  translator.BatchTranslator
	registry *jobs.Registry[jobs.TranslationJob]
}

func NewTranslateService(
	gen translator.Generator,
	registry *jobs.Registry[jobs.TranslationJob],
	cfg TranslateConfig,
) *TranslateService {
	return &TranslateService{
		cfg:      cfg,
		gen:      gen,
		adapter:  translator.NewAdapter(gen),
		registry: registry,
	}
}

// Submit validates the input, registers a new job, and starts the pipeline in
// the background. Parse and credential problems surface synchronously; after
// that, all progress flows through the registry.
func (s *TranslateService) Submit(content string, isTimeline bool) (string, error) {
	if content == "" {
		return "", ErrEmptyContent
	}
	if len(s.cfg.Credentials) == 0 {
		return "", ErrNoCredentials
	}

	var records []subtitle.Record
	var err error
	if isTimeline {
		records, err = subtitle.ParseTimeline([]byte(content))
	} else {
		records, err = subtitle.ParseSRT(content)
	}
	if err != nil {
		return "", fmt.Errorf("parse subtitle content: %w", err)
	}

	id := uuid.NewString()
	s.registry.Put(id, jobs.TranslationJob{
		ID:         id,
		Status:     jobs.StatusStarting,
		StatusText: "Starting...",
	})

	go s.run(id, records)
	return id, nil
}

// Progress returns the job snapshot; unknown ids report not_found instead of
// an error so pollers get a uniform shape.
func (s *TranslateService) Progress(id string) jobs.TranslationJob {
	job, ok := s.registry.Get(id)
	if !ok {
		return jobs.TranslationJob{ID: id, Status: jobs.StatusNotFound}
	}
	return job
}

func (s *TranslateService) run(id string, records []subtitle.Record) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Translation job %s panicked: %v", id, r)
			s.fail(id, fmt.Errorf("internal error: %v", r))
		}
	}()

	workers := len(s.cfg.Credentials)
	s.registry.Update(id, func(j *jobs.TranslationJob) {
		j.Status = jobs.StatusRunning
		j.StatusText = fmt.Sprintf("Running %d translation workers...", workers)
	})

	total := len(records)
	progress := translator.NewProgress(total, func(done, total int, percent float64) {
		s.registry.Update(id, func(j *jobs.TranslationJob) {
			j.Progress = percent
			j.StatusText = fmt.Sprintf("Translating... %d/%d", done, total)
		})
	})

	sourceLang := subtitle.DetectLanguage(records)
	pool := translator.NewPool(s.adapter, translator.PoolConfig{
		Credentials:    s.cfg.Credentials,
		BatchSize:      s.cfg.BatchSize,
		SourceLanguage: sourceLang.String(),
	}, progress)

	ctx := context.Background()
	table := pool.Run(ctx, records)

	s.registry.Update(id, func(j *jobs.TranslationJob) {
		j.StatusText = "Reassembling..."
	})

	translated := reassemble(table)
	srt := subtitle.Render(translated)

	s.registry.Update(id, func(j *jobs.TranslationJob) {
		j.StatusText = "Generating captions..."
	})

	summary := subtitle.Summarize(translated)
	captions, thumbnail := s.generateMarketing(ctx, summary)
	captions = brandCaptions(captions, s.cfg.CaptionPrefix, s.cfg.CaptionSuffix)

	// Outputs land before the status flips, so a poller that sees finished
	// always sees the full result.
	s.registry.Update(id, func(j *jobs.TranslationJob) {
		j.TranslatedSRT = srt
		j.Captions = captions
		j.ThumbnailText = thumbnail
		j.Progress = 100
		j.StatusText = "Done!"
		j.Status = jobs.StatusFinished
	})
}

func (s *TranslateService) fail(id string, err error) {
	s.registry.Update(id, func(j *jobs.TranslationJob) {
		j.Status = jobs.StatusError
		j.Error = err.Error()
	})
}

// reassemble flattens the pool's result table back into ascending-index
// caption records.
func reassemble(table map[int]translator.Result) []subtitle.Record {
	indexes := make([]int, 0, len(table))
	for idx := range table {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	records := make([]subtitle.Record, 0, len(table))
	for _, idx := range indexes {
		row := table[idx]
		records = append(records, subtitle.Record{
			Index:  row.Index,
			Timing: row.Timing,
			Text:   row.Text,
		})
	}
	return records
}
