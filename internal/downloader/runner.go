package downloader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/video-tools/server/pkg/log"
)

const defaultBinary = "yt-dlp"

// Request describes one media download.
type Request struct {
	URL      string
	Quality  string // "best", "audio", or a height like "720p"
	SavePath string
	Options  Options
}

// Options map to optional yt-dlp flags.
type Options struct {
	Subtitles bool
	Thumbnail bool
	Metadata  bool
	Playlist  bool
}

// Events receives scraped state changes while a download runs. Nil callbacks
// are skipped.
type Events struct {
	Progress    func(percent float64, size, speed, eta string)
	Destination func(filename string)
	Merging     func()
}

// progressPattern matches yt-dlp download progress lines, tolerating the
// estimated-size tilde.
var progressPattern = regexp.MustCompile(`(\d+\.\d+)% of\s+~?([\d.]+[KMGTP]iB)\s+at\s+(.*?)\s+ETA\s+(.*)`)

// Runner shells out to the yt-dlp binary and scrapes its line output.
type Runner struct {
	binary string
}

// NewRunner builds a runner; an empty binary falls back to yt-dlp on PATH.
func NewRunner(binary string) *Runner {
	if binary == "" {
		binary = defaultBinary
	}
	return &Runner{binary: binary}
}

// Run executes the download and blocks until the subprocess exits, invoking
// ev callbacks as state changes appear on the combined output stream. A
// non-zero exit returns an error carrying the last error-looking output line.
func (r *Runner) Run(ctx context.Context, req Request, ev Events) error {
	if req.URL == "" {
		return fmt.Errorf("url is required")
	}
	if err := os.MkdirAll(req.SavePath, 0o755); err != nil {
		return fmt.Errorf("create save path: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.binary, buildArgs(req)...)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return fmt.Errorf("start %s: %w", r.binary, err)
	}

	lines := make([]string, 0, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			lines = append(lines, line)
			parseLine(line, ev)
		}
	}()

	waitErr := cmd.Wait()
	pw.Close()
	<-done

	if waitErr != nil {
		errLine := lastErrorLine(lines)
		log.Error("yt-dlp exited with error: %s", errLine)
		return fmt.Errorf("%s", errLine)
	}
	return nil
}

// buildArgs translates a request into the yt-dlp argument vector. Everything
// downloads into SavePath with mp4 merging; quality selects the format chain.
func buildArgs(req Request) []string {
	args := []string{"-P", req.SavePath, "--merge-output-format", "mp4", "--progress", "--newline"}

	switch {
	case req.Quality == "audio":
		args = append(args, "-x", "--audio-format", "mp3")
	case req.Quality != "" && req.Quality != "best":
		height := strings.TrimSuffix(req.Quality, "p")
		selector := fmt.Sprintf("bv[height<=?%s][vcodec^=avc1]+ba/b[height<=?%s]/best", height, height)
		args = append(args, "-f", selector)
	}

	if req.Options.Subtitles {
		args = append(args, "--write-subs", "--all-subs")
	}
	if req.Options.Thumbnail {
		args = append(args, "--write-thumbnail")
	}
	if req.Options.Metadata {
		args = append(args, "--add-metadata")
	}
	if req.Options.Playlist {
		args = append(args, "--yes-playlist")
	} else {
		args = append(args, "--no-playlist")
	}

	return append(args, req.URL)
}

func parseLine(line string, ev Events) {
	switch {
	case strings.Contains(line, "[download]") && strings.Contains(line, "%"):
		m := progressPattern.FindStringSubmatch(line)
		if m == nil || ev.Progress == nil {
			return
		}
		percent, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return
		}
		ev.Progress(percent, m[2], strings.TrimSpace(m[3]), strings.TrimSpace(m[4]))
	case strings.Contains(line, "Destination:"):
		if ev.Destination == nil {
			return
		}
		_, rest, _ := strings.Cut(line, "Destination:")
		ev.Destination(filepath.Base(strings.TrimSpace(rest)))
	case strings.Contains(line, "Merging formats into"):
		if ev.Merging != nil {
			ev.Merging()
		}
	}
}

// lastErrorLine walks the output backwards for something that looks like an
// error message.
func lastErrorLine(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(lines[i]), "error") {
			return lines[i]
		}
	}
	return "download process failed"
}
