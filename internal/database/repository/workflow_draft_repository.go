package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thankiuday/Phygital-sub005/internal/config"
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/workflow"
)

// WorkflowDraftRepository persists workflow drafts. It implements
// workflow.Store: Get never returns an expired or unreadable draft, it
// discards them instead.
type WorkflowDraftRepository struct {
	db *gorm.DB
}

func NewWorkflowDraftRepository(db *gorm.DB) *WorkflowDraftRepository {
	return &WorkflowDraftRepository{db: db}
}

// Get loads the draft for a user and campaign key. Expired or corrupt
// drafts are deleted and reported as absent, so the wizard starts fresh.
func (r *WorkflowDraftRepository) Get(ctx context.Context, userID, campaignKey string) (*workflow.Snapshot, error) {
	var draft models.WorkflowDraft
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND campaign_key = ?", userID, campaignKey).
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	snap, ok := snapshotFromDraft(&draft)
	if !ok {
		logrus.Warnf("Discarding corrupt workflow draft %s", draft.ID)
		_ = r.Delete(ctx, userID, campaignKey)
		return nil, nil
	}
	if snap.Expired(time.Now()) {
		_ = r.Delete(ctx, userID, campaignKey)
		return nil, nil
	}
	return snap, nil
}

// Put stores the draft, overwriting any previous snapshot for the key
func (r *WorkflowDraftRepository) Put(ctx context.Context, userID, campaignKey string, snap workflow.Snapshot) error {
	draft := draftFromSnapshot(userID, campaignKey, snap)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "campaign_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"campaign_type", "payload", "current_step", "completed", "upgrade_mode", "updated_at",
			}),
		}).
		Create(draft).Error
}

// Delete removes the draft for a user and campaign key
func (r *WorkflowDraftRepository) Delete(ctx context.Context, userID, campaignKey string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND campaign_key = ?", userID, campaignKey).
		Delete(&models.WorkflowDraft{}).Error
}

func draftFromSnapshot(userID, campaignKey string, snap workflow.Snapshot) *models.WorkflowDraft {
	stepName := ""
	steps := config.StepsForCampaignType(snap.CampaignType)
	if snap.CurrentStep >= 0 && snap.CurrentStep < len(steps) {
		stepName = steps[snap.CurrentStep].Name
	}

	completed := make([]interface{}, len(snap.Completed))
	for i, name := range snap.Completed {
		completed[i] = name
	}

	return &models.WorkflowDraft{
		UserID:       userID,
		CampaignKey:  campaignKey,
		CampaignType: snap.CampaignType,
		Payload:      models.JSON(snap.Payload),
		CurrentStep:  stepName,
		Completed:    models.JSON{"steps": completed},
		UpgradeMode:  snap.UpgradeMode,
		UpdatedAt:    snap.SavedAt,
	}
}

func snapshotFromDraft(draft *models.WorkflowDraft) (*workflow.Snapshot, bool) {
	steps := config.StepsForCampaignType(draft.CampaignType)
	if steps == nil {
		return nil, false
	}

	cursor := -1
	for i, step := range steps {
		if step.Name == draft.CurrentStep {
			cursor = i
			break
		}
	}
	if cursor < 0 {
		return nil, false
	}

	var completed []string
	if raw, ok := draft.Completed["steps"].([]interface{}); ok {
		for _, v := range raw {
			if name, ok := v.(string); ok {
				completed = append(completed, name)
			}
		}
	}

	return &workflow.Snapshot{
		CampaignType: draft.CampaignType,
		Payload:      map[string]interface{}(draft.Payload),
		CurrentStep:  cursor,
		Completed:    completed,
		UpgradeMode:  draft.UpgradeMode,
		SavedAt:      draft.UpdatedAt,
	}, true
}
