package workflow_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/thankiuday/Phygital-sub005/internal/config"
	"github.com/thankiuday/Phygital-sub005/internal/workflow"
)

func mustNew(t *testing.T, campaignType string, payload map[string]interface{}, opts ...workflow.Option) *workflow.Workflow {
	t.Helper()
	w, err := workflow.New(campaignType, payload, opts...)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", campaignType, err)
	}
	return w
}

func TestNewUnknownType(t *testing.T) {
	if _, err := workflow.New("banner", nil); err == nil {
		t.Fatal("expected error for unknown campaign type")
	}
}

func TestStepCountVariesByType(t *testing.T) {
	links := mustNew(t, "links", nil)
	video := mustNew(t, "video", nil)
	document := mustNew(t, "document", nil)

	if links.StepCount() >= video.StepCount() {
		t.Errorf("links (%d steps) should have fewer steps than video (%d)",
			links.StepCount(), video.StepCount())
	}
	if video.StepCount() >= document.StepCount() {
		t.Errorf("video (%d steps) should have fewer steps than document (%d)",
			video.StepCount(), document.StepCount())
	}
}

func TestAutoAdvanceRequiresTimer(t *testing.T) {
	w := mustNew(t, "video", nil)

	err := w.StepDataReceived(w.Generation(), config.StepDesign, map[string]interface{}{
		"design_file_id": "file-1",
	})
	if err != nil {
		t.Fatalf("StepDataReceived failed: %v", err)
	}

	// the cursor only moves on the explicit timer event
	if w.CurrentStep() != config.StepDesign {
		t.Errorf("cursor moved before TimerElapsed: %q", w.CurrentStep())
	}

	w.TimerElapsed(w.Generation())
	if w.CurrentStep() != config.StepQRPosition {
		t.Errorf("expected cursor on qr_position after timer, got %q", w.CurrentStep())
	}
}

func TestAutoAdvanceNeverPassesLastStep(t *testing.T) {
	w := mustNew(t, "links", nil)

	steps := []struct {
		name string
		data map[string]interface{}
	}{
		{config.StepDesign, map[string]interface{}{"design_file_id": "f1"}},
		{config.StepQRPosition, map[string]interface{}{"qr_placement": map[string]interface{}{"x": 10.0, "y": 20.0}}},
		{config.StepSocialLinks, map[string]interface{}{"social_links": map[string]interface{}{"instagram": "https://instagram.com/x"}}},
	}
	for _, s := range steps {
		if err := w.StepDataReceived(w.Generation(), s.name, s.data); err != nil {
			t.Fatalf("StepDataReceived(%s) failed: %v", s.name, err)
		}
		w.TimerElapsed(w.Generation())
	}

	last := w.StepCount() - 1
	if w.CurrentIndex() != last {
		t.Fatalf("expected cursor on last step (%d), got %d", last, w.CurrentIndex())
	}

	// extra timer fires must not move past the end
	w.TimerElapsed(w.Generation())
	w.TimerElapsed(w.Generation())
	if w.CurrentIndex() != last {
		t.Errorf("cursor moved past last step to %d", w.CurrentIndex())
	}
}

func TestFinalStepIncompleteUntilRequiredFieldsPresent(t *testing.T) {
	w := mustNew(t, "links", nil)
	last := w.StepCount() - 1

	if w.IsStepComplete(last) {
		t.Error("final step complete on a fresh workflow")
	}

	err := w.StepDataReceived(w.Generation(), config.StepFinalize, nil)
	if !errors.Is(err, workflow.ErrStepIncomplete) {
		t.Errorf("expected ErrStepIncomplete, got %v", err)
	}
}

func TestBackThenCompleteIsIdempotent(t *testing.T) {
	w := mustNew(t, "video", nil)
	data := map[string]interface{}{"design_file_id": "f1"}

	if err := w.StepDataReceived(w.Generation(), config.StepDesign, data); err != nil {
		t.Fatalf("StepDataReceived failed: %v", err)
	}
	w.TimerElapsed(w.Generation())

	payloadBefore := w.Payload()
	completedBefore := w.CompletedSteps()

	w.Back()
	if err := w.StepDataReceived(w.Generation(), config.StepDesign, data); err != nil {
		t.Fatalf("repeat StepDataReceived failed: %v", err)
	}

	if !reflect.DeepEqual(w.Payload(), payloadBefore) {
		t.Errorf("payload changed: %v -> %v", payloadBefore, w.Payload())
	}
	if !reflect.DeepEqual(w.CompletedSteps(), completedBefore) {
		t.Errorf("completed set changed: %v -> %v", completedBefore, w.CompletedSteps())
	}
}

func TestBackKeepsPayload(t *testing.T) {
	w := mustNew(t, "video", nil)

	if err := w.StepDataReceived(w.Generation(), config.StepDesign, map[string]interface{}{"design_file_id": "f1"}); err != nil {
		t.Fatalf("StepDataReceived failed: %v", err)
	}
	w.TimerElapsed(w.Generation())
	w.Back()

	if w.CurrentStep() != config.StepDesign {
		t.Errorf("expected cursor back on design, got %q", w.CurrentStep())
	}
	if w.Payload()["design_file_id"] != "f1" {
		t.Error("payload lost on back navigation")
	}
}

func TestExistingPayloadPreCompletesSteps(t *testing.T) {
	existing := map[string]interface{}{
		"design_file_id": "f1",
		"qr_placement":   map[string]interface{}{"x": 1.0, "y": 2.0},
	}
	w := mustNew(t, "video", existing)

	if !w.ShouldShortCircuit(0) {
		t.Error("design step should short-circuit when data already satisfies it")
	}
	if !w.ShouldShortCircuit(1) {
		t.Error("qr_position step should short-circuit when data already satisfies it")
	}
}

func TestUpgradeModeForcesRedo(t *testing.T) {
	existing := map[string]interface{}{
		"design_file_id": "f1",
		"qr_placement":   map[string]interface{}{"x": 1.0, "y": 2.0},
		"video_ids":      []interface{}{"v1"},
	}
	w := mustNew(t, "video", existing, workflow.WithUpgradeMode())

	// design and qr_position are flagged for redo on upgrade
	if w.ShouldShortCircuit(0) {
		t.Error("design step must be redone in upgrade mode")
	}
	if w.ShouldShortCircuit(1) {
		t.Error("qr_position step must be redone in upgrade mode")
	}
	// the video step carries over
	if !w.ShouldShortCircuit(2) {
		t.Error("video step should short-circuit in upgrade mode")
	}
}

func TestFinalizeInvokesCallbackAndResets(t *testing.T) {
	var got map[string]interface{}
	w := mustNew(t, "redirect", nil, workflow.WithFinalize(func(payload map[string]interface{}) error {
		got = payload
		return nil
	}))

	gen := w.Generation()
	complete := []struct {
		name string
		data map[string]interface{}
	}{
		{config.StepDesign, map[string]interface{}{"design_file_id": "f1"}},
		{config.StepQRPosition, map[string]interface{}{"qr_placement": map[string]interface{}{"x": 0.0, "y": 0.0}}},
		{config.StepSocialLinks, nil},
	}
	for _, s := range complete {
		if err := w.StepDataReceived(gen, s.name, s.data); err != nil {
			t.Fatalf("StepDataReceived(%s) failed: %v", s.name, err)
		}
		w.TimerElapsed(gen)
	}

	if err := w.StepDataReceived(gen, config.StepFinalize, nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if got == nil || got["design_file_id"] != "f1" {
		t.Errorf("finalize callback did not receive the payload: %v", got)
	}
	if w.CurrentIndex() != 0 {
		t.Errorf("expected reset to first step, got index %d", w.CurrentIndex())
	}
	if w.Generation() == gen {
		t.Error("generation did not advance on reset")
	}
	if len(w.Payload()) != 0 {
		t.Errorf("payload not cleared on reset: %v", w.Payload())
	}
}

func TestFinalizeErrorLeavesStepIncomplete(t *testing.T) {
	boom := errors.New("upload rejected")
	w := mustNew(t, "redirect", map[string]interface{}{
		"design_file_id": "f1",
		"qr_placement":   map[string]interface{}{"x": 0.0, "y": 0.0},
	}, workflow.WithFinalize(func(map[string]interface{}) error { return boom }))

	if err := w.StepDataReceived(w.Generation(), config.StepSocialLinks, nil); err != nil {
		t.Fatalf("StepDataReceived failed: %v", err)
	}
	err := w.StepDataReceived(w.Generation(), config.StepFinalize, nil)
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected finalize error, got %v", err)
	}

	// generation and payload untouched, user may retry
	if w.Generation() != 0 {
		t.Error("generation advanced despite finalize failure")
	}
	if w.Payload()["design_file_id"] != "f1" {
		t.Error("payload cleared despite finalize failure")
	}
}

func TestStaleGenerationRejected(t *testing.T) {
	w := mustNew(t, "redirect", map[string]interface{}{
		"design_file_id": "f1",
		"qr_placement":   map[string]interface{}{"x": 0.0, "y": 0.0},
	})
	gen := w.Generation()

	if err := w.StepDataReceived(gen, config.StepSocialLinks, nil); err != nil {
		t.Fatalf("StepDataReceived failed: %v", err)
	}
	if err := w.StepDataReceived(gen, config.StepFinalize, nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	// an upload that was in flight across the reset must not apply
	err := w.StepDataReceived(gen, config.StepDesign, map[string]interface{}{"design_file_id": "late"})
	if !errors.Is(err, workflow.ErrStaleGeneration) {
		t.Fatalf("expected ErrStaleGeneration, got %v", err)
	}
	if len(w.Payload()) != 0 {
		t.Errorf("stale event mutated the new instance: %v", w.Payload())
	}

	// stale timers are ignored too
	w.TimerElapsed(gen)
	if w.CurrentIndex() != 0 {
		t.Errorf("stale timer moved the cursor to %d", w.CurrentIndex())
	}
}

func TestUnknownStepRejected(t *testing.T) {
	w := mustNew(t, "links", nil)

	// links campaigns have no video step
	err := w.StepDataReceived(w.Generation(), config.StepVideo, map[string]interface{}{"video_ids": []interface{}{"v1"}})
	if !errors.Is(err, workflow.ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func TestOptionalStepSkippableAfterVisit(t *testing.T) {
	w := mustNew(t, "document", nil)
	docIdx := -1
	for i, name := range w.StepNames() {
		if name == config.StepDocuments {
			docIdx = i
		}
	}
	if docIdx < 0 {
		t.Fatal("document campaign missing documents step")
	}

	if w.IsStepComplete(docIdx) {
		t.Error("documents step complete before being visited")
	}

	w.GoTo(docIdx)
	if err := w.StepDataReceived(w.Generation(), config.StepDocuments, nil); err != nil {
		t.Fatalf("skipping documents step failed: %v", err)
	}
	if !w.IsStepComplete(docIdx) {
		t.Error("documents step incomplete after being visited with no files")
	}
}
