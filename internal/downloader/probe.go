package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Info is the subset of yt-dlp metadata the probe endpoint exposes.
type Info struct {
	Title     string  `json:"title"`
	Uploader  string  `json:"uploader"`
	Duration  float64 `json:"duration"`
	ViewCount int64   `json:"view_count"`
}

// Probe fetches metadata for a single video without downloading it.
func (r *Runner) Probe(ctx context.Context, url string) (*Info, error) {
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	cmd := exec.CommandContext(ctx, r.binary, "--dump-json", "--no-playlist", url)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("probe %s: %s", url, msg)
		}
		return nil, fmt.Errorf("probe %s: %w", url, err)
	}

	info := &Info{Title: "N/A", Uploader: "N/A"}
	if err := json.Unmarshal(out, info); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}
	return info, nil
}
