package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/thankiuday/Phygital-sub005/internal/config"
	"github.com/thankiuday/Phygital-sub005/internal/workflow"
)

func TestDraftRoundTrip(t *testing.T) {
	w := mustNew(t, "video", nil)
	if err := w.StepDataReceived(w.Generation(), config.StepDesign, map[string]interface{}{"design_file_id": "f1"}); err != nil {
		t.Fatalf("StepDataReceived failed: %v", err)
	}
	w.TimerElapsed(w.Generation())

	snap := w.Snapshot(time.Now())
	restored, err := workflow.Restore(snap)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.CurrentStep() != w.CurrentStep() {
		t.Errorf("cursor mismatch: %q vs %q", restored.CurrentStep(), w.CurrentStep())
	}
	if restored.Payload()["design_file_id"] != "f1" {
		t.Error("payload not restored")
	}
	if !restored.IsStepComplete(0) {
		t.Error("completed step lost across round trip")
	}
}

func TestDraftRestoreKeepsUpgradeMode(t *testing.T) {
	w := mustNew(t, "video", map[string]interface{}{"design_file_id": "f1"}, workflow.WithUpgradeMode())
	snap := w.Snapshot(time.Now())

	restored, err := workflow.Restore(snap)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.ShouldShortCircuit(0) {
		t.Error("upgrade mode lost across round trip: design step short-circuits")
	}
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := workflow.NewMemoryStore()
	ctx := context.Background()

	snap := workflow.Snapshot{
		CampaignType: "links",
		Payload:      map[string]interface{}{"design_file_id": "f1"},
		CurrentStep:  1,
		SavedAt:      time.Now(),
	}
	if err := store.Put(ctx, "user-1", "campaign-1", snap); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "user-1", "campaign-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.CurrentStep != 1 {
		t.Fatalf("unexpected draft: %+v", got)
	}

	// keys are scoped per user
	other, err := store.Get(ctx, "user-2", "campaign-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if other != nil {
		t.Error("draft leaked across users")
	}

	if err := store.Delete(ctx, "user-1", "campaign-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err = store.Get(ctx, "user-1", "campaign-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("draft survived delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := workflow.NewMemoryStore()
	ctx := context.Background()

	stale := workflow.Snapshot{
		CampaignType: "links",
		SavedAt:      time.Now().Add(-workflow.DraftTTL - time.Hour),
	}
	if err := store.Put(ctx, "user-1", "new", stale); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "user-1", "new")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expired draft returned")
	}

	fresh := workflow.Snapshot{
		CampaignType: "links",
		SavedAt:      time.Now().Add(-workflow.DraftTTL + time.Hour),
	}
	if err := store.Put(ctx, "user-1", "new", fresh); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err = store.Get(ctx, "user-1", "new")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Error("fresh draft not returned")
	}
}
