package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thankiuday/Phygital-sub005/internal/config"
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/workflow"
)

// DefaultAdvanceDelay is the pause between completing a step and moving
// the wizard forward, so the completed view is visible for a moment.
const DefaultAdvanceDelay = time.Second

// ErrUploadInFlight means a step already has an upload being processed.
// At most one upload per campaign and step runs at a time, so a double
// click cannot submit twice.
var ErrUploadInFlight = errors.New("an upload for this step is already in progress")

type workflowEntry struct {
	mu sync.Mutex
	wf *workflow.Workflow
}

// WorkflowService hosts the upload wizards. Each user+campaign pair gets
// one live state machine; drafts mirror it best-effort so a new session
// can pick up where the last one stopped.
type WorkflowService struct {
	store           workflow.Store
	campaignService *CampaignService
	qrService       *QRService
	advanceDelay    time.Duration

	mu       sync.Mutex
	active   map[string]*workflowEntry
	inflight map[string]bool // userID/campaignKey/step
}

func NewWorkflowService(store workflow.Store, campaignService *CampaignService, qrService *QRService) *WorkflowService {
	return &WorkflowService{
		store:           store,
		campaignService: campaignService,
		qrService:       qrService,
		advanceDelay:    DefaultAdvanceDelay,
		active:          make(map[string]*workflowEntry),
		inflight:        make(map[string]bool),
	}
}

// SetAdvanceDelay overrides the auto-advance delay
func (s *WorkflowService) SetAdvanceDelay(d time.Duration) {
	s.advanceDelay = d
}

func workflowKey(userID, campaignKey string) string {
	return userID + "/" + campaignKey
}

// Open returns the live workflow for a user and campaign, restoring it
// from a persisted draft or creating it fresh. Campaign payload already
// confirmed server-side seeds the machine, so finished steps stay
// finished.
func (s *WorkflowService) Open(ctx context.Context, userID, campaignKey string, req *models.StartWorkflowRequest) (*models.WorkflowStateResponse, error) {
	entry, err := s.entryFor(ctx, userID, campaignKey, req)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.stateLocked(campaignKey, entry.wf), nil
}

// CompleteStep submits data for a step. The merge and completion check run
// synchronously; the cursor advances after the configured delay. Stale
// generations (from an upload that outlived a finalize) are rejected.
func (s *WorkflowService) CompleteStep(ctx context.Context, userID, campaignKey, step string, req *models.CompleteStepRequest) (*models.WorkflowStateResponse, error) {
	entry, err := s.entryFor(ctx, userID, campaignKey, nil)
	if err != nil {
		return nil, err
	}

	// one in-flight submission per campaign and step
	flightKey := workflowKey(userID, campaignKey) + "/" + step
	s.mu.Lock()
	if s.inflight[flightKey] {
		s.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	s.inflight[flightKey] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, flightKey)
		s.mu.Unlock()
	}()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	wf := entry.wf
	generation := req.Generation
	if err := wf.StepDataReceived(generation, step, req.Data); err != nil {
		return nil, err
	}

	if step == config.StepFinalize {
		// finalize succeeded: the machine has reset, the draft is gone
		if err := s.store.Delete(ctx, userID, campaignKey); err != nil {
			logrus.Warnf("Failed to delete workflow draft for %s: %v", campaignKey, err)
		}
		return s.stateLocked(campaignKey, wf), nil
	}

	s.persistDraft(ctx, userID, campaignKey, wf)
	s.scheduleAdvance(userID, campaignKey, entry, generation)
	return s.stateLocked(campaignKey, wf), nil
}

// Back moves the wizard one step back without losing payload
func (s *WorkflowService) Back(ctx context.Context, userID, campaignKey string) (*models.WorkflowStateResponse, error) {
	entry, err := s.entryFor(ctx, userID, campaignKey, nil)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.wf.Back()
	s.persistDraft(ctx, userID, campaignKey, entry.wf)
	return s.stateLocked(campaignKey, entry.wf), nil
}

// Discard drops the live workflow and its draft
func (s *WorkflowService) Discard(ctx context.Context, userID, campaignKey string) error {
	key := workflowKey(userID, campaignKey)
	s.mu.Lock()
	delete(s.active, key)
	s.mu.Unlock()
	return s.store.Delete(ctx, userID, campaignKey)
}

// scheduleAdvance fires the machine's pending auto-advance after the
// configured delay. The generation guard makes a timer that outlives a
// reset harmless.
func (s *WorkflowService) scheduleAdvance(userID, campaignKey string, entry *workflowEntry, generation uint64) {
	time.AfterFunc(s.advanceDelay, func() {
		entry.mu.Lock()
		defer entry.mu.Unlock()
		entry.wf.TimerElapsed(generation)
		s.persistDraft(context.Background(), userID, campaignKey, entry.wf)
	})
}

// persistDraft snapshots the machine. Persistence is best effort: failure
// is logged and never blocks navigation.
func (s *WorkflowService) persistDraft(ctx context.Context, userID, campaignKey string, wf *workflow.Workflow) {
	snap := wf.Snapshot(time.Now())
	if err := s.store.Put(ctx, userID, campaignKey, snap); err != nil {
		logrus.Warnf("Failed to persist workflow draft for %s: %v", campaignKey, err)
	}
}

// entryFor returns the live entry, restoring or creating it when absent
func (s *WorkflowService) entryFor(ctx context.Context, userID, campaignKey string, req *models.StartWorkflowRequest) (*workflowEntry, error) {
	key := workflowKey(userID, campaignKey)

	s.mu.Lock()
	if entry, ok := s.active[key]; ok {
		s.mu.Unlock()
		return entry, nil
	}
	s.mu.Unlock()

	wf, err := s.buildWorkflow(ctx, userID, campaignKey, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.active[key]; ok {
		// lost the race, keep the existing machine
		return entry, nil
	}
	entry := &workflowEntry{wf: wf}
	s.active[key] = entry
	return entry, nil
}

func (s *WorkflowService) buildWorkflow(ctx context.Context, userID, campaignKey string, req *models.StartWorkflowRequest) (*workflow.Workflow, error) {
	// a persisted draft wins over starting fresh
	snap, err := s.store.Get(ctx, userID, campaignKey)
	if err != nil {
		logrus.Warnf("Failed to load workflow draft for %s: %v", campaignKey, err)
		snap = nil
	}
	if snap != nil {
		wf, err := workflow.Restore(*snap, workflow.WithFinalize(s.finalizeFunc(userID, campaignKey)))
		if err == nil {
			return wf, nil
		}
		// unusable draft, discard and fall through
		logrus.Warnf("Discarding unusable workflow draft for %s: %v", campaignKey, err)
		_ = s.store.Delete(ctx, userID, campaignKey)
	}

	campaignType := ""
	upgradeMode := false
	if req != nil {
		campaignType = req.CampaignType
		upgradeMode = req.UpgradeMode
	}

	existing := map[string]interface{}{}
	if campaignKey != models.DraftKeyNew {
		campaign, err := s.campaignService.GetCampaign(userID, campaignKey)
		if err != nil {
			return nil, err
		}
		if campaignType == "" {
			campaignType = campaign.CampaignType
		}
		existing = campaignPayload(campaign)
	}
	if campaignType == "" {
		return nil, errors.New("campaign_type is required to start a workflow")
	}

	opts := []workflow.Option{workflow.WithFinalize(s.finalizeFunc(userID, campaignKey))}
	if upgradeMode {
		opts = append(opts, workflow.WithUpgradeMode())
	}
	return workflow.New(campaignType, existing, opts...)
}

// finalizeFunc produces the finalize callback: generate the composite
// artifact and drop the live machine so the next open starts fresh.
func (s *WorkflowService) finalizeFunc(userID, campaignKey string) workflow.FinalizeFunc {
	return func(payload map[string]interface{}) error {
		if campaignKey == models.DraftKeyNew {
			return errors.New("campaign must be created before finalizing")
		}
		if s.qrService != nil {
			if _, err := s.qrService.GenerateArtifact(userID, campaignKey); err != nil {
				return fmt.Errorf("failed to generate artifact: %w", err)
			}
		}
		return nil
	}
}

// campaignPayload projects a campaign's confirmed server-side state into
// the shape the step predicates understand
func campaignPayload(campaign *models.Campaign) map[string]interface{} {
	payload := map[string]interface{}{}

	if campaign.DesignFileID != nil {
		payload["design_file_id"] = *campaign.DesignFileID
	}
	if campaign.LogoFileID != nil {
		payload["logo_file_id"] = *campaign.LogoFileID
	}
	if campaign.DesignFileID != nil && (campaign.QRPositionX != 0 || campaign.QRPositionY != 0 || campaign.QRScale != 1) {
		payload["qr_placement"] = map[string]interface{}{
			"x":        campaign.QRPositionX,
			"y":        campaign.QRPositionY,
			"scale":    campaign.QRScale,
			"rotation": campaign.QRRotation,
		}
	}
	if ids := campaign.VideoIDs(); len(ids) > 0 {
		list := make([]interface{}, len(ids))
		for i, id := range ids {
			list[i] = id
		}
		payload["video_ids"] = list
	}
	if ids := campaign.DocumentIDs(); len(ids) > 0 {
		list := make([]interface{}, len(ids))
		for i, id := range ids {
			list[i] = id
		}
		payload["document_ids"] = list
	}
	if links := campaign.SocialLinkMap(); len(links) > 0 {
		m := make(map[string]interface{}, len(links))
		for k, v := range links {
			m[k] = v
		}
		payload["social_links"] = m
	}

	return payload
}

// stateLocked builds the client-facing state. Caller holds the entry lock.
func (s *WorkflowService) stateLocked(campaignKey string, wf *workflow.Workflow) *models.WorkflowStateResponse {
	steps := config.StepsForCampaignType(wf.CampaignType())
	states := make([]models.WorkflowStepState, len(steps))
	for i, step := range steps {
		states[i] = models.WorkflowStepState{
			Name:     step.Name,
			Required: step.Required,
			Complete: wf.IsStepComplete(i),
			Current:  i == wf.CurrentIndex(),
		}
	}

	return &models.WorkflowStateResponse{
		CampaignKey:  campaignKey,
		CampaignType: wf.CampaignType(),
		CurrentStep:  wf.CurrentStep(),
		Generation:   wf.Generation(),
		UpgradeMode:  wf.UpgradeMode(),
		Steps:        states,
		Payload:      wf.Payload(),
	}
}
