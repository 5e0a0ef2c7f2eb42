package partput

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mpucli/mpu/lib/httpw"
)

// Why a part PUT failed.
type Reason string

const (
	// The request never produced a usable response (connection reset,
	// timeout, DNS failure).
	ReasonTransport Reason = "transport"
	// Storage answered 200 but without an ETag header, so the part cannot
	// be finalized.
	ReasonMissingIdentifier Reason = "missingIdentifier"
	// Storage answered with a status other than 200. Redirects count as
	// failures too: the presigned URL must be hit exactly.
	ReasonNonSuccessStatus Reason = "nonSuccessStatus"
)

// A failed part upload. Never retried here; retry policy, if any, belongs
// to the caller.
type PartUploadError struct {
	Reason     Reason
	StatusCode int
	Cause      error
}

func (e *PartUploadError) Error() string {
	switch e.Reason {
	case ReasonMissingIdentifier:
		return "part upload returned no ETag header"
	case ReasonNonSuccessStatus:
		return fmt.Sprintf("part upload failed: storage returned %d", e.StatusCode)
	default:
		return fmt.Sprintf("part upload transport failure: %v", e.Cause)
	}
}

func (e *PartUploadError) Unwrap() error {
	return e.Cause
}

// Uploads single parts to presigned storage URLs.
type Uploader struct{}

func New() *Uploader {
	return &Uploader{}
}

// PUT the raw part bytes to a presigned URL and return the part identifier
// from the response's ETag header.
//
// Success is strictly HTTP 200. Storage backends answer presigned part PUTs
// with 200 and nothing else; treating the rest of 2xx (or redirects) as
// success would hide signing and routing mistakes.
func (u *Uploader) PutPart(ctx context.Context, presignedURL string, body []byte, contentType string) (string, error) {
	res, err := httpw.Put(ctx, presignedURL, body, contentType)
	if err != nil {
		return "", &PartUploadError{Reason: ReasonTransport, Cause: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", &PartUploadError{Reason: ReasonNonSuccessStatus, StatusCode: res.StatusCode}
	}

	// Header lookup is case-insensitive; S3-compatible backends vary the
	// casing of ETag.
	etag := res.Header.Get("ETag")
	if etag == "" {
		return "", &PartUploadError{Reason: ReasonMissingIdentifier, StatusCode: res.StatusCode}
	}

	return etag, nil
}
