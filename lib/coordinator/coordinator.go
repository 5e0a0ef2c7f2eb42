package coordinator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mpucli/mpu/lib/api"
	"github.com/mpucli/mpu/lib/httpw"
	"github.com/mpucli/mpu/models"
)

// HTTP client for the upload coordinator. Stateless beyond request/response
// mapping; the coordinator host comes from the CLI config.
type Client struct{}

func New() *Client {
	return &Client{}
}

// Initiate a new multipart upload session for a file.
// Returns the coordinator-assigned upload ID and object key.
func (c *Client) Initiate(ctx context.Context, filename string, contentType string) (models.InitiateResponse, error) {
	form := url.Values{}
	form.Set("filename", filename)
	form.Set("content_type", contentType)

	res, err := httpw.PostForm(ctx, api.BuildURL("upload/initiate"), form)
	if err != nil {
		return models.InitiateResponse{}, &CoordinatorError{Stage: StageInitiate, Cause: err}
	}
	defer res.Body.Close()

	if err := checkStatus(StageInitiate, 0, res); err != nil {
		return models.InitiateResponse{}, err
	}

	// Parse response
	var initiateRes models.InitiateResponse
	if err := json.NewDecoder(res.Body).Decode(&initiateRes); err != nil {
		return models.InitiateResponse{}, &CoordinatorError{Stage: StageInitiate, Cause: err}
	}

	return initiateRes, nil
}

// Get a presigned URL authorizing the PUT of one part.
func (c *Client) PresignPart(ctx context.Context, key string, uploadID string, partNumber int) (string, error) {
	form := url.Values{}
	form.Set("key", key)
	form.Set("uploadId", uploadID)
	form.Set("partNumber", strconv.Itoa(partNumber))

	res, err := httpw.PostForm(ctx, api.BuildURL("upload/presigned-url"), form)
	if err != nil {
		return "", &CoordinatorError{Stage: StagePresign, PartNumber: partNumber, Cause: err}
	}
	defer res.Body.Close()

	if err := checkStatus(StagePresign, partNumber, res); err != nil {
		return "", err
	}

	// Parse response
	var presignRes models.PresignResponse
	if err := json.NewDecoder(res.Body).Decode(&presignRes); err != nil {
		return "", &CoordinatorError{Stage: StagePresign, PartNumber: partNumber, Cause: err}
	}

	return presignRes.URL, nil
}

// Report one successfully uploaded part so the coordinator can track
// per-session progress.
func (c *Client) MarkPartComplete(ctx context.Context, key string, uploadID string, part models.CompletedPart) error {
	form := url.Values{}
	form.Set("key", key)
	form.Set("uploadId", uploadID)
	form.Set("partNumber", strconv.Itoa(part.PartNumber))
	form.Set("etag", part.ETag)
	form.Set("size", strconv.FormatInt(part.Size, 10))
	if part.Checksum != "" {
		form.Set("checksum", part.Checksum)
	}

	res, err := httpw.PostForm(ctx, api.BuildURL("upload/part-complete"), form)
	if err != nil {
		return &CoordinatorError{Stage: StagePartComplete, PartNumber: part.PartNumber, Cause: err}
	}
	defer res.Body.Close()

	return checkStatus(StagePartComplete, part.PartNumber, res)
}

// Finalize the multipart upload. Parts must be in ascending part number
// order with one entry per planned part.
func (c *Client) Complete(ctx context.Context, key string, uploadID string, parts []models.MultipartUploadPart) error {
	bodyJson, err := json.Marshal(models.CompleteMultipartUploadRequestBody{
		Key:      key,
		UploadID: uploadID,
		Parts:    parts,
	})
	if err != nil {
		return &CoordinatorError{Stage: StageComplete, Cause: err}
	}

	res, err := httpw.PostJSON(ctx, api.BuildURL("upload/complete"), bodyJson)
	if err != nil {
		return &CoordinatorError{Stage: StageComplete, Cause: err}
	}
	defer res.Body.Close()

	return checkStatus(StageComplete, 0, res)
}

// Abort an upload session, releasing its uploaded parts on the backend.
func (c *Client) Abort(ctx context.Context, key string, uploadID string) error {
	bodyJson, err := json.Marshal(models.AbortMultipartUploadRequestBody{
		Key:      key,
		UploadID: uploadID,
	})
	if err != nil {
		return &CoordinatorError{Stage: StageAbort, Cause: err}
	}

	res, err := httpw.PostJSON(ctx, api.BuildURL("upload/abort"), bodyJson)
	if err != nil {
		return &CoordinatorError{Stage: StageAbort, Cause: err}
	}
	defer res.Body.Close()

	return checkStatus(StageAbort, 0, res)
}

// List upload sessions the coordinator currently considers active.
func (c *Client) ActiveSessions(ctx context.Context) ([]models.UploadSessionInfo, error) {
	res, err := httpw.Get(ctx, api.BuildURL("upload/sessions/active"))
	if err != nil {
		return nil, &CoordinatorError{Stage: StageSessions, Cause: err}
	}
	defer res.Body.Close()

	if err := checkStatus(StageSessions, 0, res); err != nil {
		return nil, err
	}

	// Parse response
	var sessionsRes models.ActiveSessionsResponse
	if err := json.NewDecoder(res.Body).Decode(&sessionsRes); err != nil {
		return nil, &CoordinatorError{Stage: StageSessions, Cause: err}
	}

	return sessionsRes.Sessions, nil
}

// Validate response status, retaining the raw body of failed responses for
// diagnostics.
func checkStatus(stage Stage, partNumber int, res *http.Response) error {
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))

	return &CoordinatorError{
		Stage:      stage,
		PartNumber: partNumber,
		StatusCode: res.StatusCode,
		Body:       string(body),
	}
}
