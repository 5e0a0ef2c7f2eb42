package models

import "io"

// A local source of bytes selected for upload.
type UploadTarget struct {
	// File name sent to the coordinator (base name, no directories).
	Name string
	// MIME type of the file contents.
	ContentType string
	// Total size in bytes.
	Size int64
	// Addressable byte range reader for the file contents.
	Reader io.ReaderAt
}

// Response body for the `initiate` route.
type InitiateResponse struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// Response body for the `presigned-url` route.
type PresignResponse struct {
	URL string `json:"url"`
}

// One finalized part, as submitted to the `complete` route.
// Field casing matches what the coordinator forwards to S3 verbatim.
type MultipartUploadPart struct {
	PartNumber int    `json:"PartNumber"`
	ETag       string `json:"ETag"`
}

// Request body for the `complete` route. Parts must be in ascending
// part number order.
type CompleteMultipartUploadRequestBody struct {
	Key      string                `json:"key"`
	UploadID string                `json:"uploadId"`
	Parts    []MultipartUploadPart `json:"parts"`
}

// Request body for the `abort` route.
type AbortMultipartUploadRequestBody struct {
	Key      string `json:"key"`
	UploadID string `json:"uploadId"`
}

// One uploaded part reported to the `part-complete` route, letting the
// coordinator track per-session progress.
type CompletedPart struct {
	PartNumber int
	ETag       string
	Size       int64
	// xxhash64 hex digest of the part bytes. Optional.
	Checksum string
}

// One active upload session as reported by the coordinator.
type UploadSessionInfo struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Key       string `json:"key"`
	UploadID  string `json:"upload_id"`
	FileSize  int64  `json:"file_size"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

// Response body for the `sessions/active` route.
type ActiveSessionsResponse struct {
	Sessions []UploadSessionInfo `json:"sessions"`
}
