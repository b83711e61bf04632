package domain

import "time"

// Asset records a locally uploaded video held by the storage backend.
type Asset struct {
	ID              string    `json:"id"`
	StorageKey      string    `json:"storageKey"`
	URL             string    `json:"videoUrl"`
	OriginalName    string    `json:"originalName"`
	MIMEType        string    `json:"mime"`
	Bytes           int64     `json:"bytes"`
	DurationSeconds *float64  `json:"durationSeconds,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
