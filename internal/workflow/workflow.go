package workflow

import (
	"errors"
	"fmt"

	"github.com/thankiuday/Phygital-sub005/internal/config"
)

var (
	// ErrStaleGeneration marks an event produced against a workflow
	// instance that has since been reset. The event's result must not be
	// applied to the new instance.
	ErrStaleGeneration = errors.New("workflow event is stale")

	// ErrUnknownStep marks an event for a step the campaign type does not
	// have.
	ErrUnknownStep = errors.New("unknown workflow step")

	// ErrStepIncomplete marks a finalize attempt while a required step's
	// completion predicate does not hold.
	ErrStepIncomplete = errors.New("required step is incomplete")
)

// FinalizeFunc runs when the terminal step completes. It receives the full
// payload and is expected to produce the artifact and persist the campaign.
// A non-nil error leaves the terminal step incomplete.
type FinalizeFunc func(payload map[string]interface{}) error

// Workflow is the upload wizard state machine. It is a pure in-memory
// structure driven only by explicit events: no timers, no globals, no I/O.
// Callers own any clock or persistence around it.
type Workflow struct {
	campaignType string
	steps        []config.StepPolicy

	payload   map[string]interface{}
	completed map[string]bool
	visited   map[string]bool

	cursor         int
	pendingAdvance bool
	upgradeMode    bool
	generation     uint64

	finalize FinalizeFunc
}

// Option configures a new Workflow.
type Option func(*Workflow)

// WithUpgradeMode runs the wizard as a campaign type upgrade: steps flagged
// for redo are not pre-completed from historical data.
func WithUpgradeMode() Option {
	return func(w *Workflow) { w.upgradeMode = true }
}

// WithFinalize sets the callback invoked when the terminal step completes.
func WithFinalize(fn FinalizeFunc) Option {
	return func(w *Workflow) { w.finalize = fn }
}

// New builds a workflow for the campaign type, seeded with any existing
// payload. Steps whose completion predicate already holds against the seed
// are pre-marked complete, except steps a type upgrade forces to be redone.
func New(campaignType string, existingPayload map[string]interface{}, opts ...Option) (*Workflow, error) {
	steps := config.StepsForCampaignType(campaignType)
	if steps == nil {
		return nil, fmt.Errorf("unknown campaign type %q", campaignType)
	}

	w := &Workflow{
		campaignType: campaignType,
		steps:        steps,
		payload:      make(map[string]interface{}),
		completed:    make(map[string]bool),
		visited:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	for k, v := range existingPayload {
		w.payload[k] = v
	}
	for _, step := range w.steps[:len(w.steps)-1] {
		if w.upgradeMode && step.RedoOnUpgrade {
			continue
		}
		if stepSatisfied(step.Name, w.payload) {
			w.completed[step.Name] = true
		}
	}

	w.visited[w.steps[0].Name] = true
	return w, nil
}

// Generation identifies the current workflow instance. It increments on
// every reset, so callbacks from before a reset carry a stale value.
func (w *Workflow) Generation() uint64 { return w.generation }

// CampaignType returns the type the wizard was built for.
func (w *Workflow) CampaignType() string { return w.campaignType }

// UpgradeMode reports whether the wizard runs as a type upgrade.
func (w *Workflow) UpgradeMode() bool { return w.upgradeMode }

// CurrentStep returns the name of the step under the cursor.
func (w *Workflow) CurrentStep() string { return w.steps[w.cursor].Name }

// CurrentIndex returns the zero-based cursor position.
func (w *Workflow) CurrentIndex() int { return w.cursor }

// StepCount returns the number of steps for this campaign type.
func (w *Workflow) StepCount() int { return len(w.steps) }

// StepNames returns the ordered step names.
func (w *Workflow) StepNames() []string {
	names := make([]string, len(w.steps))
	for i, s := range w.steps {
		names[i] = s.Name
	}
	return names
}

// IsStepComplete reports whether the step at index n is complete. The
// terminal step is complete only once every required step before it is.
func (w *Workflow) IsStepComplete(n int) bool {
	if n < 0 || n >= len(w.steps) {
		return false
	}
	step := w.steps[n]
	if step.Name == config.StepFinalize {
		return w.completed[step.Name]
	}
	if step.Required {
		return w.completed[step.Name]
	}
	// optional steps only need a visit, or data if any was supplied
	return w.completed[step.Name] || w.visited[step.Name]
}

// Payload returns a copy of the accumulated payload.
func (w *Workflow) Payload() map[string]interface{} {
	out := make(map[string]interface{}, len(w.payload))
	for k, v := range w.payload {
		out[k] = v
	}
	return out
}

// CompletedSteps returns the names of steps marked complete.
func (w *Workflow) CompletedSteps() []string {
	names := make([]string, 0, len(w.completed))
	for _, s := range w.steps {
		if w.completed[s.Name] {
			names = append(names, s.Name)
		}
	}
	return names
}

// StepDataReceived merges data for the named step into the payload and
// marks the step complete when its predicate holds. Completing a
// non-terminal step schedules an auto-advance, fired later by TimerElapsed.
// Completing the terminal step invokes the finalize callback and resets the
// wizard. Events from a previous generation are rejected unapplied.
func (w *Workflow) StepDataReceived(generation uint64, stepName string, data map[string]interface{}) error {
	if generation != w.generation {
		return ErrStaleGeneration
	}

	idx := w.stepIndex(stepName)
	if idx < 0 {
		return fmt.Errorf("%w: %q for campaign type %q", ErrUnknownStep, stepName, w.campaignType)
	}

	for k, v := range data {
		w.payload[k] = v
	}
	w.visited[stepName] = true

	step := w.steps[idx]
	if step.Name == config.StepFinalize {
		return w.runFinalize()
	}

	if stepSatisfied(step.Name, w.payload) || !step.Required {
		w.completed[step.Name] = true
		if idx == w.cursor && idx < len(w.steps)-1 {
			w.pendingAdvance = true
		}
	}
	return nil
}

// TimerElapsed fires a previously scheduled auto-advance. It never moves
// the cursor past the last step and does nothing when no advance is
// pending or the event is stale.
func (w *Workflow) TimerElapsed(generation uint64) {
	if generation != w.generation || !w.pendingAdvance {
		return
	}
	w.pendingAdvance = false
	if w.cursor < len(w.steps)-1 {
		w.cursor++
		w.visited[w.steps[w.cursor].Name] = true
	}
}

// Back moves the cursor to the previous step. The payload and the
// completed-step set are untouched, so re-completing the step with the
// same data is a no-op in content.
func (w *Workflow) Back() {
	w.pendingAdvance = false
	if w.cursor > 0 {
		w.cursor--
	}
}

// GoTo moves the cursor to the step at index n. Used when restoring a
// draft or when the user jumps to an already-completed step.
func (w *Workflow) GoTo(n int) {
	if n < 0 || n >= len(w.steps) {
		return
	}
	w.pendingAdvance = false
	w.cursor = n
	w.visited[w.steps[n].Name] = true
}

// ShouldShortCircuit reports whether entering the step at index n may skip
// straight to its completed view. An upgrade forces flagged steps to be
// redone even when historical data satisfies them.
func (w *Workflow) ShouldShortCircuit(n int) bool {
	if n < 0 || n >= len(w.steps) {
		return false
	}
	step := w.steps[n]
	if w.upgradeMode && step.RedoOnUpgrade {
		return false
	}
	return w.completed[step.Name]
}

func (w *Workflow) runFinalize() error {
	for i, step := range w.steps[:len(w.steps)-1] {
		if step.Required && !w.IsStepComplete(i) {
			return fmt.Errorf("%w: %s", ErrStepIncomplete, step.Name)
		}
	}

	if w.finalize != nil {
		if err := w.finalize(w.Payload()); err != nil {
			return fmt.Errorf("finalize failed: %w", err)
		}
	}

	w.completed = make(map[string]bool)
	w.visited = make(map[string]bool)
	w.payload = make(map[string]interface{})
	w.cursor = 0
	w.pendingAdvance = false
	w.generation++
	w.visited[w.steps[0].Name] = true
	return nil
}

func (w *Workflow) stepIndex(name string) int {
	for i, s := range w.steps {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// stepSatisfied is the per-step completion predicate, a pure function of
// the payload.
func stepSatisfied(stepName string, payload map[string]interface{}) bool {
	switch stepName {
	case config.StepDesign:
		return payloadString(payload, "design_file_id") != ""
	case config.StepQRPosition:
		_, ok := payload["qr_placement"].(map[string]interface{})
		return ok
	case config.StepVideo:
		return payloadListLen(payload, "video_ids") > 0
	case config.StepDocuments:
		return payloadListLen(payload, "document_ids") > 0
	case config.StepSocialLinks:
		links, ok := payload["social_links"].(map[string]interface{})
		return ok && len(links) > 0
	default:
		return false
	}
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadListLen(payload map[string]interface{}, key string) int {
	if v, ok := payload[key].([]interface{}); ok {
		return len(v)
	}
	if v, ok := payload[key].([]string); ok {
		return len(v)
	}
	return 0
}
