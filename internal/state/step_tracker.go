package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/persistence"
	"wayfinder/pkg/utils"
)

const (
	StepURLParam = "step"
	StepKey      = persistence.KeyCurrentStep
)

const (
	SourceURLIndex  Source = "url-index"
	SourceURLLegacy Source = "url-legacy"
)

// StepTracker keeps the active questionnaire step. The URL carries the
// 1-based index so links stay short; storage carries the identifier so a
// reordering of the step list cannot move a returning visitor.
type StepTracker struct {
	mu     sync.Mutex
	sinks  Sinks
	step   pref_models.Step
	source Source
}

func NewStepTracker(ctx context.Context, def pref_models.Step, sinks Sinks) *StepTracker {
	t := &StepTracker{sinks: sinks}
	if !def.Known() {
		def = pref_models.Steps[0]
	}
	t.step, t.source = resolveFirst(t.candidates(ctx), def)
	t.reconcile(ctx)
	return t
}

// reconcile writes the resolved position back so the URL and storage agree
// after load. The URL always ends up with the canonical index; storage is
// only written when the position came from the URL. Failures are logged.
func (t *StepTracker) reconcile(ctx context.Context) {
	idx := strconv.Itoa(pref_models.IndexOf(t.step))
	if t.sinks.URL != nil {
		if raw, ok := t.sinks.URL.Get(StepURLParam); !ok || raw != idx {
			t.sinks.URL.Replace(StepURLParam, idx)
		}
	}
	if t.sinks.Storage == nil || (t.source != SourceURLIndex && t.source != SourceURLLegacy) {
		return
	}
	raw, _ := json.Marshal(string(t.step))
	if err := t.sinks.Storage.Set(ctx, StepKey, string(raw)); err != nil {
		t.sinks.logger().Warn("step write-back failed", zap.String("key", StepKey), zap.Error(err))
	}
}

func (t *StepTracker) candidates(ctx context.Context) []candidate[pref_models.Step] {
	return []candidate[pref_models.Step]{
		{source: SourceURLIndex, read: t.fromURLIndex},
		{source: SourceURLLegacy, read: t.fromURLLegacy},
		{source: SourceStorage, read: func() (pref_models.Step, bool) { return t.fromStorage(ctx) }},
	}
}

func (t *StepTracker) fromURLIndex() (pref_models.Step, bool) {
	if t.sinks.URL == nil {
		return "", false
	}
	raw, ok := t.sinks.URL.Get(StepURLParam)
	if !ok {
		return "", false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	step, ok := pref_models.StepAt(idx)
	if !ok {
		t.sinks.logger().Warn("step index out of range", zap.Int("index", idx))
	}
	return step, ok
}

// fromURLLegacy accepts the older link format where the parameter held the
// JSON-encoded step identifier.
func (t *StepTracker) fromURLLegacy() (pref_models.Step, bool) {
	if t.sinks.URL == nil {
		return "", false
	}
	raw, ok := t.sinks.URL.Get(StepURLParam)
	if !ok {
		return "", false
	}
	var id string
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return "", false
	}
	step := pref_models.Step(id)
	return step, step.Known()
}

func (t *StepTracker) fromStorage(ctx context.Context) (pref_models.Step, bool) {
	if t.sinks.Storage == nil {
		return "", false
	}
	raw, ok, err := t.sinks.Storage.Get(ctx, StepKey)
	if err != nil {
		t.sinks.logger().Warn("storage read failed", zap.String("key", StepKey), zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	var id string
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		t.sinks.logger().Warn("ignoring malformed stored step", zap.String("raw", raw), zap.Error(err))
		return "", false
	}
	step := pref_models.Step(id)
	return step, step.Known()
}

func (t *StepTracker) Current() pref_models.Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.step
}

// Index is the 1-based position of the current step.
func (t *StepTracker) Index() int {
	return pref_models.IndexOf(t.Current())
}

func (t *StepTracker) Source() Source {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.source
}

// Set moves to step, writing the identifier to storage and the index to the
// URL.
func (t *StepTracker) Set(ctx context.Context, step pref_models.Step) error {
	idx := pref_models.IndexOf(step)
	if idx == 0 {
		return fmt.Errorf("%q: %w", step, utils.ErrUnknownStep)
	}

	t.mu.Lock()
	t.step = step
	t.mu.Unlock()

	if t.sinks.URL != nil {
		t.sinks.URL.Replace(StepURLParam, strconv.Itoa(idx))
	}
	if t.sinks.Storage != nil {
		raw, _ := json.Marshal(string(step))
		if err := t.sinks.Storage.Set(ctx, StepKey, string(raw)); err != nil {
			return fmt.Errorf("persist %s: %w", StepKey, err)
		}
	}
	return nil
}

// Clear forgets the stored position and returns to the first step.
func (t *StepTracker) Clear(ctx context.Context) error {
	first := pref_models.Steps[0]
	t.mu.Lock()
	t.step = first
	t.mu.Unlock()

	if t.sinks.URL != nil {
		t.sinks.URL.Replace(StepURLParam, "1")
	}
	if t.sinks.Storage != nil {
		if err := t.sinks.Storage.Remove(ctx, StepKey); err != nil {
			return fmt.Errorf("remove %s: %w", StepKey, err)
		}
	}
	return nil
}
