package emsbuild

import "context"

// EventHandler handles events from Runner.Execute.
type EventHandler interface {
	HandleEvent(ctx context.Context, event RunEvent)
}

// EventHandlerFunc is func form of EventHandler.
type EventHandlerFunc func(context.Context, RunEvent)

// HandleEvent implements EventHandler.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event RunEvent) {
	f(ctx, event)
}

// RunEvent is the abstract of run events.
type RunEvent interface {
	Plan() *Plan
}

// RunStartEvent is the event when Runner.Execute starts.
type RunStartEvent struct {
	runEventBase
}

// RunEndEvent is the event when Runner.Execute ends.
type RunEndEvent struct {
	runEventBase
	Err error
}

// StepStartEvent indicates a step is about to run.
type StepStartEvent struct {
	runEventBase
	Step *Step
}

// StepCompleteEvent indicates a step succeeded, failed or was skipped.
type StepCompleteEvent struct {
	runEventBase
	Step *Step
}

type runEventBase struct {
	plan *Plan
}

// Plan implements RunEvent.
func (e *runEventBase) Plan() *Plan {
	return e.plan
}
