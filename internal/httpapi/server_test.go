package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/video-tools/server/internal/downloader"
	"github.com/video-tools/server/internal/jobs"
	"github.com/video-tools/server/internal/service"
)

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, _ string, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "copywriter"):
		return "=== CURIOSITY CAPTION ===\nWho did it?\n#whodunit", nil
	case strings.Contains(prompt, "thumbnail designer"):
		return "SHOCKING END", nil
	default:
		return "[1] xin chào nhé", nil
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	translateRegistry := jobs.NewRegistry(time.Hour, func(j jobs.TranslationJob) bool {
		return j.Status.Terminal()
	})
	translate := service.NewTranslateService(stubGenerator{}, translateRegistry, service.TranslateConfig{
		Credentials: []string{"k1"},
	})

	stub := filepath.Join(t.TempDir(), "fake-yt-dlp")
	require.NoError(t, os.WriteFile(stub, []byte(`#!/bin/sh
if [ "$1" = "--dump-json" ]; then
  echo '{"title":"Clip","uploader":"Chan","duration":30,"view_count":99}'
  exit 0
fi
echo '[download] Destination: /tmp/out/clip.mp4'
echo '[download] 100.0% of 10.00MiB at 1.00MiB/s ETA 00:00'
exit 0
`), 0o755))

	downloadRegistry := jobs.NewRegistry(time.Hour, func(j jobs.DownloadJob) bool {
		return j.Status.Terminal()
	})
	download := service.NewDownloadService(downloader.NewRunner(stub), downloadRegistry, t.TempDir())

	ts := httptest.NewServer(NewServer(translate, download).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSuperTranslate_RoundTrip(t *testing.T) {
	ts := newTestServer(t)

	srt := "1\n00:00:01,000 --> 00:00:02,000\nhello world there\n"
	resp, body := postJSON(t, ts.URL+"/super-translate", map[string]any{
		"content": srt,
		"is_json": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	taskID, ok := body["task_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, taskID)

	var progress map[string]any
	require.Eventually(t, func() bool {
		_, progress = postJSON(t, ts.URL+"/super-translate-progress", map[string]any{
			"task_id": taskID,
		})
		return progress["status"] == "finished"
	}, 5*time.Second, 20*time.Millisecond)

	assert.Contains(t, progress["translated_srt"], "xin chào nhé")
	assert.Equal(t, float64(100), progress["progress"])
	assert.NotEmpty(t, progress["captions"])
	assert.Equal(t, "SHOCKING END", progress["thumbnail_text"])
}

func TestSuperTranslate_EmptyContent(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/super-translate", map[string]any{
		"content": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestSuperTranslate_InvalidBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/super-translate", "application/json", strings.NewReader("{broken"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSuperTranslateProgress_UnknownTask(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/super-translate-progress", map[string]any{
		"task_id": "nope",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "not_found", body["status"])
}

func TestDownload_RoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/download", map[string]any{
		"url":     "https://v.test/clip",
		"quality": "best",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	downloadID, ok := body["download_id"].(string)
	require.True(t, ok)

	var progress map[string]any
	require.Eventually(t, func() bool {
		_, progress = postJSON(t, ts.URL+"/progress", map[string]any{
			"download_id": downloadID,
		})
		return progress["status"] == "finished"
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "clip.mp4", progress["filename"])
}

func TestDownload_MissingURL(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := postJSON(t, ts.URL+"/download", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadProgress_UnknownID(t *testing.T) {
	ts := newTestServer(t)

	_, body := postJSON(t, ts.URL+"/progress", map[string]any{
		"download_id": "nope",
	})
	assert.Equal(t, "not_found", body["status"])
}

func TestInfo(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/info", map[string]any{
		"url": "https://v.test/clip",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Clip", data["title"])
	assert.Equal(t, float64(99), data["view_count"])
}

func TestInfo_MissingURL(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := postJSON(t, ts.URL+"/info", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/super-translate", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://extension.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
