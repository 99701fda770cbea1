package domain

import (
	"time"

	"github.com/google/uuid"
)

// AcquisitionStatus represents the current status of an acquisition
type AcquisitionStatus string

const (
	StatusProcessing AcquisitionStatus = "processing"
	StatusCompleted  AcquisitionStatus = "completed"
	StatusFailed     AcquisitionStatus = "failed"
)

// Acquisition is the history record for one media acquisition request.
// The delivered file itself is never retained; FileName is kept for
// diagnostics and the success notification only.
type Acquisition struct {
	ID           string            `json:"id" gorm:"primaryKey"`
	URL          string            `json:"url" gorm:"not null"`
	Kind         MediaKind         `json:"kind" gorm:"not null"`
	Quality      string            `json:"quality"`
	Status       AcquisitionStatus `json:"status" gorm:"not null;index"`
	ErrorKind    string            `json:"error_kind,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty" gorm:"type:text"`
	FileName     string            `json:"file_name,omitempty"`
	CreatedAt    time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// NewAcquisition creates a new acquisition record. The uuid also names the
// request's private workspace directory under the storage root, so two
// concurrent requests for the same title never share an output path.
func NewAcquisition(url string, plan AcquisitionPlan) *Acquisition {
	return &Acquisition{
		ID:        uuid.New().String(),
		URL:       url,
		Kind:      plan.Kind,
		Quality:   plan.Quality,
		Status:    StatusProcessing,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// MarkCompleted marks the acquisition as completed
func (a *Acquisition) MarkCompleted(fileName string) {
	a.Status = StatusCompleted
	a.FileName = fileName
	now := time.Now()
	a.CompletedAt = &now
	a.UpdatedAt = now
}

// MarkFailed marks the acquisition as failed, recording the failure kind
func (a *Acquisition) MarkFailed(err error) {
	a.Status = StatusFailed
	a.ErrorKind = ErrorKind(err)
	a.ErrorMessage = err.Error()
	a.UpdatedAt = time.Now()
}

// AcquisitionStats summarizes past acquisitions
type AcquisitionStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Artifact is the single media file produced by one acquisition. It is
// owned by the requesting pipeline from the moment the engine reports it
// until cleanup removes it.
type Artifact struct {
	Path string // concrete on-disk path inside the request workspace
	Name string // base name, used as the download's suggested filename
}
