package partput

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploader_PutPart(t *testing.T) {
	body := []byte("part one bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, int64(len(body)), r.ContentLength)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		got, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, body, got)

		w.Header().Set("ETag", `"abc123"`)
	}))
	t.Cleanup(srv.Close)

	etag, err := New().PutPart(context.Background(), srv.URL, body, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, `"abc123"`, etag)
}

func TestUploader_PutPart_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, int64(0), r.ContentLength)
		w.Header().Set("ETag", `"empty"`)
	}))
	t.Cleanup(srv.Close)

	etag, err := New().PutPart(context.Background(), srv.URL, []byte{}, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, `"empty"`, etag)
}

// A 200 without an ETag header is a protocol failure, distinct from
// transport failures.
func TestUploader_PutPart_MissingIdentifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	_, err := New().PutPart(context.Background(), srv.URL, []byte("x"), "application/octet-stream")

	var putErr *PartUploadError
	require.ErrorAs(t, err, &putErr)
	assert.Equal(t, ReasonMissingIdentifier, putErr.Reason)
}

func TestUploader_PutPart_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "access denied", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	_, err := New().PutPart(context.Background(), srv.URL, []byte("x"), "application/octet-stream")

	var putErr *PartUploadError
	require.ErrorAs(t, err, &putErr)
	assert.Equal(t, ReasonNonSuccessStatus, putErr.Reason)
	assert.Equal(t, http.StatusForbidden, putErr.StatusCode)
}

// Redirects are not followed and not treated as success: the presigned URL
// must be hit exactly.
func TestUploader_PutPart_RedirectIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/elsewhere")
		w.WriteHeader(http.StatusTemporaryRedirect)
	}))
	t.Cleanup(srv.Close)

	_, err := New().PutPart(context.Background(), srv.URL, []byte("x"), "application/octet-stream")

	var putErr *PartUploadError
	require.ErrorAs(t, err, &putErr)
	assert.Equal(t, ReasonNonSuccessStatus, putErr.Reason)
	assert.Equal(t, http.StatusTemporaryRedirect, putErr.StatusCode)
}

func TestUploader_PutPart_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New().PutPart(context.Background(), url, []byte("x"), "application/octet-stream")

	var putErr *PartUploadError
	require.ErrorAs(t, err, &putErr)
	assert.Equal(t, ReasonTransport, putErr.Reason)
	assert.Error(t, putErr.Unwrap())
}
