package config_test

import (
	"testing"

	"github.com/thankiuday/Phygital-sub005/internal/config"
)

func TestKnownCampaignType(t *testing.T) {
	for _, ct := range []string{"redirect", "links", "video", "document", "ar"} {
		if !config.KnownCampaignType(ct) {
			t.Errorf("KnownCampaignType(%q) = false, want true", ct)
		}
	}
	if config.KnownCampaignType("banner") {
		t.Error("KnownCampaignType(\"banner\") = true, want false")
	}
}

func TestStepsEndWithFinalize(t *testing.T) {
	for _, ct := range []string{"redirect", "links", "video", "document", "ar"} {
		steps := config.StepsForCampaignType(ct)
		if len(steps) == 0 {
			t.Fatalf("no steps for %q", ct)
		}
		last := steps[len(steps)-1]
		if last.Name != config.StepFinalize {
			t.Errorf("%q: last step = %q, want %q", ct, last.Name, config.StepFinalize)
		}
		if !last.Required {
			t.Errorf("%q: finalize step must be required", ct)
		}
	}
}

func TestDesignStepsRedoOnUpgrade(t *testing.T) {
	for _, ct := range []string{"links", "video", "document", "ar"} {
		for _, step := range config.StepsForCampaignType(ct) {
			switch step.Name {
			case config.StepDesign, config.StepQRPosition:
				if !step.RedoOnUpgrade {
					t.Errorf("%q: step %q should redo on upgrade", ct, step.Name)
				}
			default:
				if step.RedoOnUpgrade {
					t.Errorf("%q: step %q should not redo on upgrade", ct, step.Name)
				}
			}
		}
	}
}

func TestStepsForCampaignTypeReturnsCopy(t *testing.T) {
	steps := config.StepsForCampaignType("video")
	steps[0].Required = false

	fresh := config.StepsForCampaignType("video")
	if !fresh[0].Required {
		t.Error("mutating the returned slice leaked into the step table")
	}
}

func TestStepsForUnknownTypeIsNil(t *testing.T) {
	if steps := config.StepsForCampaignType("banner"); steps != nil {
		t.Errorf("expected nil steps for unknown type, got %v", steps)
	}
}
