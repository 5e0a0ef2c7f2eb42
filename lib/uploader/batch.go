package uploader

import (
	"context"

	"github.com/mpucli/mpu/models"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Observation hooks for a whole batch, index-aligned with the targets.
type Hooks struct {
	// Called after every status change of any target.
	OnStatus func(index int, status string)
	// Called after each finished part of any target.
	OnPartDone func(index int, done int, total int)
}

// Per-target upload progress, index-aligned with the selection order.
// Mutated only by the Manager driving it; observers read it through the
// Hooks callbacks or the snapshot accessors.
type BatchState struct {
	targets    []models.UploadTarget
	statuses   []string
	states     []State
	inProgress bool
}

func NewBatchState(targets []models.UploadTarget) *BatchState {
	return &BatchState{
		targets:  targets,
		statuses: make([]string, len(targets)),
		states:   make([]State, len(targets)),
	}
}

// Latest status string per target.
func (b *BatchState) Statuses() []string {
	return slices.Clone(b.statuses)
}

// Latest status string for one target.
func (b *BatchState) Status(index int) string {
	return b.statuses[index]
}

// Lifecycle state per target.
func (b *BatchState) States() []State {
	return slices.Clone(b.states)
}

// True from the first target's start until the last target's terminal state.
func (b *BatchState) InProgress() bool {
	return b.inProgress
}

// Number of targets that reached a terminal failure.
func (b *BatchState) FailedCount() int {
	return lo.CountBy(b.states, func(s State) bool {
		return s == StateFailed
	})
}

// Sequences upload sessions across the selected files: strictly one session
// at a time, in selection order. A failed file never aborts the batch; the
// manager simply moves on to the next file.
type Manager struct {
	coord  Coordinator
	putter PartPutter
	opts   Options
}

func NewManager(coord Coordinator, putter PartPutter, opts Options) *Manager {
	return &Manager{
		coord:  coord,
		putter: putter,
		opts:   opts,
	}
}

// Upload every target in batch, to its terminal state, one at a time.
// On return every target has a terminal status recorded in batch.
func (m *Manager) UploadAll(ctx context.Context, batch *BatchState, hooks Hooks) {
	batch.inProgress = true
	defer func() { batch.inProgress = false }()

	for i, target := range batch.targets {
		index := i

		opts := m.opts
		opts.OnStatus = func(status string) {
			batch.statuses[index] = status
			if hooks.OnStatus != nil {
				hooks.OnStatus(index, status)
			}
		}
		opts.OnPartDone = func(done int, total int) {
			if hooks.OnPartDone != nil {
				hooks.OnPartDone(index, done, total)
			}
		}

		session := NewSession(target, m.coord, m.putter, opts)

		// Errors are already reflected in the target's terminal status;
		// the next target proceeds regardless.
		_ = session.Run(ctx)

		batch.states[index] = session.State()
	}
}
