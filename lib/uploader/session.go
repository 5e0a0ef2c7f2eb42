package uploader

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/mpucli/mpu/lib/console"
	"github.com/mpucli/mpu/lib/planner"
	"github.com/mpucli/mpu/models"
)

// Lifecycle state of one file's upload session.
type State int

const (
	StateIdle State = iota
	StateInitiating
	StateUploadingParts
	StateCompleting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitiating:
		return "initiating"
	case StateUploadingParts:
		return "uploading_parts"
	case StateCompleting:
		return "completing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-visible status strings. The last status emitted for a file is the
// authoritative outcome description; StatusDone is the only string that
// denotes success.
const (
	StatusPreparing    = "Preparing upload..."
	StatusUploadingFmt = "Uploading part %d of %d..."
	StatusFinalizing   = "Finalizing upload..."
	StatusDone         = "Upload complete!"
	StatusFailedPrefix = "Upload failed: "
)

// The three coordinator calls a session drives, plus abort.
// Implemented by lib/coordinator; faked in tests.
type Coordinator interface {
	Initiate(ctx context.Context, filename string, contentType string) (models.InitiateResponse, error)
	PresignPart(ctx context.Context, key string, uploadID string, partNumber int) (string, error)
	MarkPartComplete(ctx context.Context, key string, uploadID string, part models.CompletedPart) error
	Complete(ctx context.Context, key string, uploadID string, parts []models.MultipartUploadPart) error
	Abort(ctx context.Context, key string, uploadID string) error
}

// PUT of one part's bytes to a presigned URL.
// Implemented by lib/partput; faked in tests.
type PartPutter interface {
	PutPart(ctx context.Context, presignedURL string, body []byte, contentType string) (string, error)
}

// Per-session behavior knobs and observation hooks.
type Options struct {
	// Maximum part size in bytes.
	ChunkSize int64
	// Send an abort request to the coordinator on terminal failure.
	AbortOnFailure bool
	// Called after every status change.
	OnStatus func(status string)
	// Called after each part finishes uploading.
	OnPartDone func(done int, total int)
}

// Sessions are single-use; create a new one to retry a file from scratch.
var ErrSessionReused = errors.New("upload session already ran")

// Owns one file's upload lifecycle: plans parts, drives the coordinator and
// part uploads strictly sequentially in ascending part number order, and
// finalizes the object.
//
// A session's mutable state is touched only by the single flow driving Run;
// it must not be shared across goroutines.
type Session struct {
	target models.UploadTarget
	coord  Coordinator
	putter PartPutter
	opts   Options

	state    State
	status   string
	key      string
	uploadID string
	parts    []models.MultipartUploadPart
}

func NewSession(target models.UploadTarget, coord Coordinator, putter PartPutter, opts Options) *Session {
	return &Session{
		target: target,
		coord:  coord,
		putter: putter,
		opts:   opts,
		state:  StateIdle,
	}
}

// Current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Latest user-visible status string.
func (s *Session) Status() string {
	return s.status
}

// Backend-assigned object key. Empty until initiation succeeds.
func (s *Session) Key() string {
	return s.key
}

// Coordinator-assigned session token. Empty until initiation succeeds.
func (s *Session) UploadID() string {
	return s.uploadID
}

// Finalized parts collected so far, ascending by part number.
func (s *Session) Parts() []models.MultipartUploadPart {
	return s.parts
}

// Run the session to a terminal state. Fail-fast: the first failed step
// fails the whole session, remaining parts are never attempted and no
// retries happen at any level.
func (s *Session) Run(ctx context.Context) error {
	if s.state != StateIdle {
		return ErrSessionReused
	}

	// Initiate the session with the coordinator
	s.setState(StateInitiating, StatusPreparing)
	initiateRes, err := s.coord.Initiate(ctx, s.target.Name, s.target.ContentType)
	if err != nil {
		return s.fail(err)
	}
	s.key = initiateRes.Key
	s.uploadID = initiateRes.UploadID

	plan := planner.Plan(s.target.Size, s.opts.ChunkSize)
	if plan == nil {
		return s.fail(fmt.Errorf("cannot plan parts for size %d with chunk size %d", s.target.Size, s.opts.ChunkSize))
	}

	// Upload parts strictly in ascending part number order
	s.state = StateUploadingParts
	for _, part := range plan {
		s.setStatus(fmt.Sprintf(StatusUploadingFmt, part.Number, len(plan)))

		if err := s.uploadPart(ctx, part); err != nil {
			return s.fail(err)
		}

		if s.opts.OnPartDone != nil {
			s.opts.OnPartDone(part.Number, len(plan))
		}
	}

	// Finalize the object
	s.setState(StateCompleting, StatusFinalizing)
	if err := s.coord.Complete(ctx, s.key, s.uploadID, s.parts); err != nil {
		return s.fail(err)
	}

	s.setState(StateDone, StatusDone)
	return nil
}

// Upload a single part: presign, PUT, record the identifier, report back to
// the coordinator.
func (s *Session) uploadPart(ctx context.Context, part planner.Part) error {
	presignedURL, err := s.coord.PresignPart(ctx, s.key, s.uploadID, part.Number)
	if err != nil {
		return err
	}

	body, err := s.readPart(part)
	if err != nil {
		return err
	}

	etag, err := s.putter.PutPart(ctx, presignedURL, body, "application/octet-stream")
	if err != nil {
		return err
	}

	s.parts = append(s.parts, models.MultipartUploadPart{
		PartNumber: part.Number,
		ETag:       etag,
	})

	return s.coord.MarkPartComplete(ctx, s.key, s.uploadID, models.CompletedPart{
		PartNumber: part.Number,
		ETag:       etag,
		Size:       part.Len(),
		Checksum:   checksum(body),
	})
}

// Read one part's byte range from the target.
func (s *Session) readPart(part planner.Part) ([]byte, error) {
	body := make([]byte, part.Len())
	if len(body) == 0 {
		return body, nil
	}

	n, err := s.target.Reader.ReadAt(body, part.Start)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read part %d: %w", part.Number, err)
	}
	if n != len(body) {
		return nil, fmt.Errorf("read part %d: short read (%d of %d bytes)", part.Number, n, len(body))
	}

	return body, nil
}

// Transition to Failed, converting the error into the terminal status
// string and optionally aborting the session on the backend.
func (s *Session) fail(err error) error {
	s.setState(StateFailed, StatusFailedPrefix+err.Error())

	if s.opts.AbortOnFailure && s.uploadID != "" {
		// Abort uses a fresh context: the session's context may already be
		// canceled, and the original error must not be masked.
		if abortErr := s.coord.Abort(context.Background(), s.key, s.uploadID); abortErr != nil {
			console.Verbose("Failed to abort upload %s: %v", s.uploadID, abortErr)
		}
	}

	return err
}

func (s *Session) setState(state State, status string) {
	s.state = state
	s.setStatus(status)
}

func (s *Session) setStatus(status string) {
	s.status = status
	if s.opts.OnStatus != nil {
		s.opts.OnStatus(status)
	}
}

// xxhash64 hex digest of the part bytes.
func checksum(body []byte) string {
	hash := xxhash.New()
	_, _ = hash.Write(body)

	return hex.EncodeToString(hash.Sum(nil))
}
