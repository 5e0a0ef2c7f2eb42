package coordinator

import "fmt"

// Protocol stage a coordinator call belongs to.
type Stage string

const (
	StageInitiate     Stage = "initiate"
	StagePresign      Stage = "presign"
	StagePartComplete Stage = "part-complete"
	StageComplete     Stage = "complete"
	StageAbort        Stage = "abort"
	StageSessions     Stage = "sessions"
)

// A failed coordinator call. For non-2xx responses StatusCode and Body hold
// the raw response for diagnostics; for transport failures Cause is set
// instead.
type CoordinatorError struct {
	Stage Stage
	// 1-based part number for per-part stages, 0 otherwise.
	PartNumber int
	StatusCode int
	Body       string
	Cause      error
}

func (e *CoordinatorError) Error() string {
	subject := string(e.Stage)
	if e.PartNumber > 0 {
		subject = fmt.Sprintf("%s for part %d", e.Stage, e.PartNumber)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %v", subject, e.Cause)
	}

	return fmt.Sprintf("%s failed: coordinator returned %d: %s", subject, e.StatusCode, e.Body)
}

func (e *CoordinatorError) Unwrap() error {
	return e.Cause
}
