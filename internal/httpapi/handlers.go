package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/video-tools/server/internal/downloader"
	"github.com/video-tools/server/internal/service"
)

type superTranslateRequest struct {
	Content string `json:"content"`
	IsJSON  bool   `json:"is_json"`
}

type taskRequest struct {
	TaskID string `json:"task_id"`
}

type downloadRequest struct {
	URL      string `json:"url"`
	Quality  string `json:"quality"`
	SavePath string `json:"save_path"`
	Options  struct {
		Subtitles bool `json:"subtitles"`
		Thumbnail bool `json:"thumbnail"`
		Metadata  bool `json:"metadata"`
		Playlist  bool `json:"playlist"`
	} `json:"options"`
}

type downloadProgressRequest struct {
	DownloadID string `json:"download_id"`
}

type infoRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSuperTranslate(w http.ResponseWriter, r *http.Request) {
	var req superTranslateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := s.translate.Submit(req.Content, req.IsJSON)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrNoCredentials) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"task_id": id,
	})
}

// handleSuperTranslateProgress always answers 200; unknown task ids carry
// status not_found in the body so pollers need no error handling.
func (s *Server) handleSuperTranslateProgress(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.translate.Progress(req.TaskID))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := s.download.Submit(downloader.Request{
		URL:      req.URL,
		Quality:  req.Quality,
		SavePath: req.SavePath,
		Options: downloader.Options{
			Subtitles: req.Options.Subtitles,
			Thumbnail: req.Options.Thumbnail,
			Metadata:  req.Options.Metadata,
			Playlist:  req.Options.Playlist,
		},
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"download_id": id,
	})
}

func (s *Server) handleDownloadProgress(w http.ResponseWriter, r *http.Request) {
	var req downloadProgressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.download.Progress(req.DownloadID))
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	var req infoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	info, err := s.download.Info(r.Context(), req.URL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    info,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
