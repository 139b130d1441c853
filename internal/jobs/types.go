package jobs

type Status string

const (
	StatusStarting    Status = "starting"
	StatusRunning     Status = "running"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusFinished    Status = "finished"
	StatusError       Status = "error"

	// StatusNotFound is never stored; it is the reply for unknown or
	// already swept task ids.
	StatusNotFound Status = "not_found"
)

// Terminal reports whether a job in this status will never change again.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusError
}

// TranslationJob is the observable state of one subtitle translation task.
type TranslationJob struct {
	ID            string  `json:"task_id"`
	Status        Status  `json:"status"`
	Progress      float64 `json:"progress"`
	StatusText    string  `json:"status_text,omitempty"`
	Error         string  `json:"error,omitempty"`
	TranslatedSRT string  `json:"translated_srt,omitempty"`
	Captions      string  `json:"captions,omitempty"`
	ThumbnailText string  `json:"thumbnail_text,omitempty"`
}

// DownloadJob is the observable state of one media download task.
type DownloadJob struct {
	ID       string  `json:"task_id"`
	Status   Status  `json:"status"`
	Progress float64 `json:"progress"`
	Size     string  `json:"size,omitempty"`
	Speed    string  `json:"speed,omitempty"`
	ETA      string  `json:"eta,omitempty"`
	Filename string  `json:"filename,omitempty"`
	Error    string  `json:"error,omitempty"`
}
