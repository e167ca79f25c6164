package services

import (
	"context"
	"fmt"

	"wayfinder/internal/models/pref_models"
	"wayfinder/pkg/utils"
)

// StepPosition is the part of the step tracker the sequencer drives.
type StepPosition interface {
	Current() pref_models.Step
	Set(ctx context.Context, step pref_models.Step) error
}

// StepSequencer walks the fixed step list. It never checks step validity;
// callers gate Next with IsStepValid.
type StepSequencer struct {
	position StepPosition
	steps    []pref_models.Step
}

func NewStepSequencer(position StepPosition) *StepSequencer {
	return &StepSequencer{position: position, steps: pref_models.Steps}
}

func (s *StepSequencer) Steps() []pref_models.Step {
	out := make([]pref_models.Step, len(s.steps))
	copy(out, s.steps)
	return out
}

func (s *StepSequencer) Current() pref_models.Step {
	return s.position.Current()
}

// Index is zero-based, matching the step list.
func (s *StepSequencer) Index() int {
	current := s.position.Current()
	for i, step := range s.steps {
		if step == current {
			return i
		}
	}
	return 0
}

func (s *StepSequencer) IsFirst() bool { return s.Index() == 0 }
func (s *StepSequencer) IsLast() bool  { return s.Index() == len(s.steps)-1 }

func (s *StepSequencer) Next(ctx context.Context) (pref_models.Step, error) {
	if s.IsLast() {
		return s.Current(), nil
	}
	next := s.steps[s.Index()+1]
	return next, s.position.Set(ctx, next)
}

func (s *StepSequencer) Previous(ctx context.Context) (pref_models.Step, error) {
	if s.IsFirst() {
		return s.Current(), nil
	}
	prev := s.steps[s.Index()-1]
	return prev, s.position.Set(ctx, prev)
}

// JumpTo moves straight to step, bypassing validity; progress-indicator
// jumps only target steps already reached.
func (s *StepSequencer) JumpTo(ctx context.Context, step pref_models.Step) (pref_models.Step, error) {
	if !step.Known() {
		return s.Current(), fmt.Errorf("%q: %w", step, utils.ErrUnknownStep)
	}
	return step, s.position.Set(ctx, step)
}
