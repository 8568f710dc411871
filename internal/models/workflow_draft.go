package models

import (
	"time"
)

// DraftKeyNew is the campaign key used for a draft of a campaign that has
// not been created yet.
const DraftKeyNew = "new"

// WorkflowDraft is a best-effort snapshot of an in-progress upload
// workflow. It is advisory only: once a step's data is confirmed uploaded,
// the campaign row is authoritative. Drafts older than the configured
// expiry are discarded on load.
type WorkflowDraft struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID       string    `json:"user_id" gorm:"not null;index:idx_drafts_user_campaign,unique;type:uuid"`
	CampaignKey  string    `json:"campaign_key" gorm:"not null;index:idx_drafts_user_campaign,unique;type:varchar(64)"` // campaign id or "new"
	CampaignType string    `json:"campaign_type" gorm:"type:varchar(50);not null"`
	Payload      JSON      `json:"payload" gorm:"type:jsonb"`
	CurrentStep  string    `json:"current_step" gorm:"type:varchar(50)"`
	Completed    JSON      `json:"completed" gorm:"type:jsonb"` // {"steps": ["design", ...]}
	UpgradeMode  bool      `json:"upgrade_mode" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the WorkflowDraft model
func (WorkflowDraft) TableName() string {
	return "workflow_drafts"
}

// StartWorkflowRequest opens (or resumes) an upload workflow
type StartWorkflowRequest struct {
	CampaignType string `json:"campaign_type" example:"video"`
	UpgradeMode  bool   `json:"upgrade_mode" example:"false"`
}

// CompleteStepRequest submits data for a workflow step
type CompleteStepRequest struct {
	Generation uint64                 `json:"generation"`
	Data       map[string]interface{} `json:"data"`
}

// WorkflowStepState describes one step in the workflow state response
type WorkflowStepState struct {
	Name     string `json:"name" example:"design"`
	Required bool   `json:"required" example:"true"`
	Complete bool   `json:"complete" example:"false"`
	Current  bool   `json:"current" example:"true"`
}

// WorkflowStateResponse is the wizard state returned to the client
type WorkflowStateResponse struct {
	CampaignKey  string                 `json:"campaign_key" example:"550e8400-e29b-41d4-a716-446655440000"`
	CampaignType string                 `json:"campaign_type" example:"video"`
	CurrentStep  string                 `json:"current_step" example:"design"`
	Generation   uint64                 `json:"generation" example:"0"`
	UpgradeMode  bool                   `json:"upgrade_mode" example:"false"`
	Steps        []WorkflowStepState    `json:"steps"`
	Payload      map[string]interface{} `json:"payload"`
}
