package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/video-tools/server/internal/downloader"
	"github.com/video-tools/server/internal/jobs"
	"github.com/video-tools/server/pkg/log"
)

// DownloadService owns media download jobs, mapping scraped subprocess
// output onto registry records.
type DownloadService struct {
	runner     *downloader.Runner
	registry   *jobs.Registry[jobs.DownloadJob]
	defaultDir string
}

func NewDownloadService(
	runner *downloader.Runner,
	registry *jobs.Registry[jobs.DownloadJob],
	defaultDir string,
) *DownloadService {
	return &DownloadService{
		runner:     runner,
		registry:   registry,
		defaultDir: defaultDir,
	}
}

// Submit registers a download job and starts the subprocess in the
// background.
func (s *DownloadService) Submit(req downloader.Request) (string, error) {
	if req.URL == "" {
		return "", fmt.Errorf("url is required")
	}
	if req.SavePath == "" {
		req.SavePath = s.defaultDir
	}

	id := uuid.NewString()
	s.registry.Put(id, jobs.DownloadJob{
		ID:     id,
		Status: jobs.StatusStarting,
	})

	go s.run(id, req)
	return id, nil
}

// Progress returns the job snapshot; unknown ids report not_found.
func (s *DownloadService) Progress(id string) jobs.DownloadJob {
	job, ok := s.registry.Get(id)
	if !ok {
		return jobs.DownloadJob{ID: id, Status: jobs.StatusNotFound}
	}
	return job
}

// Info probes video metadata without downloading.
func (s *DownloadService) Info(ctx context.Context, url string) (*downloader.Info, error) {
	return s.runner.Probe(ctx, url)
}

func (s *DownloadService) run(id string, req downloader.Request) {
	s.registry.Update(id, func(j *jobs.DownloadJob) {
		j.Status = jobs.StatusDownloading
	})

	err := s.runner.Run(context.Background(), req, downloader.Events{
		Progress: func(percent float64, size, speed, eta string) {
			s.registry.Update(id, func(j *jobs.DownloadJob) {
				j.Progress = percent
				j.Size = size
				j.Speed = speed
				j.ETA = eta
			})
		},
		Destination: func(filename string) {
			s.registry.Update(id, func(j *jobs.DownloadJob) {
				j.Filename = filename
			})
		},
		Merging: func() {
			s.registry.Update(id, func(j *jobs.DownloadJob) {
				j.Status = jobs.StatusProcessing
			})
		},
	})
	if err != nil {
		log.Error("Download job %s failed: %v", id, err)
		s.registry.Update(id, func(j *jobs.DownloadJob) {
			j.Status = jobs.StatusError
			j.Error = err.Error()
		})
		return
	}

	s.registry.Update(id, func(j *jobs.DownloadJob) {
		j.Status = jobs.StatusFinished
		j.Progress = 100
	})
}
