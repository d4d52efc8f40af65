package model

import (
	"time"
)

type Upload struct {
	ID           string    `db:"id" json:"id"`
	Filename     string    `db:"filename" json:"filename"`
	OriginalName string    `db:"original_name" json:"originalName"`
	MimeType     string    `db:"mime_type" json:"mimeType"`
	Size         int64     `db:"size" json:"size"`
	URL          string    `db:"url" json:"url"`
	Mirrored     bool      `db:"mirrored" json:"mirrored"` // true once copied to the S3 mirror
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// UploadResult is the public response of a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
