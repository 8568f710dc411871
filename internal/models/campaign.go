package models

import (
	"time"
)

// Campaign types, ordered from simplest to richest. A campaign may be
// upgraded to a richer type after creation without losing payload data;
// printed QR codes keep working because they encode the redirect URL,
// never the final destination.
const (
	CampaignTypeRedirect = "redirect" // plain external URL
	CampaignTypeLinks    = "links"    // social/contact links hub
	CampaignTypeVideo    = "video"    // video landing page
	CampaignTypeDocument = "document" // PDF + video landing page
	CampaignTypeAR       = "ar"       // AR content + video landing page
)

// CampaignTypeRank returns the richness rank of a campaign type, or -1 for
// an unknown type. Upgrades are only allowed to a strictly higher rank.
func CampaignTypeRank(campaignType string) int {
	switch campaignType {
	case CampaignTypeRedirect:
		return 0
	case CampaignTypeLinks:
		return 1
	case CampaignTypeVideo:
		return 2
	case CampaignTypeDocument:
		return 3
	case CampaignTypeAR:
		return 4
	}
	return -1
}

// Campaign represents a QR experience configured by a user
type Campaign struct {
	ID     string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID string `json:"user_id" gorm:"not null;index;type:uuid"`
	Name   string `json:"name" gorm:"type:varchar(255);not null"`

	// Campaign type and lifecycle
	CampaignType string `json:"campaign_type" gorm:"type:varchar(50);index;default:'redirect'"`
	IsPaused     bool   `json:"is_paused" gorm:"default:false;index"`

	// Destination for redirect-type campaigns
	TargetURL string `json:"target_url" gorm:"type:text"`

	// Uploaded content references (files table)
	DesignFileID    *string `json:"design_file_id" gorm:"type:uuid"`
	ArtifactFileID  *string `json:"artifact_file_id" gorm:"type:uuid"` // generated composite design
	LogoFileID      *string `json:"logo_file_id" gorm:"type:uuid"`
	VideoFileIDs    JSON    `json:"video_file_ids" gorm:"type:jsonb"`    // {"ids": [...]}, max 5
	DocumentFileIDs JSON    `json:"document_file_ids" gorm:"type:jsonb"` // {"ids": [...]}, max 5

	// QR placement on the design image
	QRPositionX float64 `json:"qr_position_x" gorm:"default:0"`
	QRPositionY float64 `json:"qr_position_y" gorm:"default:0"`
	QRScale     float64 `json:"qr_scale" gorm:"default:1"`
	QRRotation  float64 `json:"qr_rotation" gorm:"default:0"`

	// QR visual design (frame, module shape, corner style, colors, logo scale)
	QRDesign JSON `json:"qr_design" gorm:"type:jsonb"`

	// Platform name -> URL or phone number
	SocialLinks JSON `json:"social_links" gorm:"type:jsonb"`

	// Hosted landing page for non-redirect types
	LandingURL string `json:"landing_url" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User       User        `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	ScanEvents []ScanEvent `json:"scan_events,omitempty" gorm:"foreignKey:CampaignID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}

// VideoIDs returns the video file ids stored in the jsonb payload
func (c *Campaign) VideoIDs() []string {
	return jsonStringList(c.VideoFileIDs, "ids")
}

// DocumentIDs returns the document file ids stored in the jsonb payload
func (c *Campaign) DocumentIDs() []string {
	return jsonStringList(c.DocumentFileIDs, "ids")
}

// StringListJSON wraps a string slice in the {"ids": [...]} jsonb shape
func StringListJSON(ids []string) JSON {
	list := make([]interface{}, len(ids))
	for i, id := range ids {
		list[i] = id
	}
	return JSON{"ids": list}
}

func jsonStringList(j JSON, key string) []string {
	if j == nil {
		return nil
	}
	raw, ok := j[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SocialLinkMap returns the social link set as a plain string map
func (c *Campaign) SocialLinkMap() map[string]string {
	out := make(map[string]string, len(c.SocialLinks))
	for k, v := range c.SocialLinks {
		if s, ok := v.(string); ok && s != "" {
			out[k] = s
		}
	}
	return out
}

// CreateCampaignRequest represents the request to create a new campaign
type CreateCampaignRequest struct {
	Name         string `json:"name" binding:"required" example:"Summer flyer"`
	CampaignType string `json:"campaign_type" binding:"required" example:"redirect"`
	TargetURL    string `json:"target_url" example:"https://example.com/menu"`
}

// UpdateCampaignRequest represents the request to update campaign metadata
type UpdateCampaignRequest struct {
	Name      string `json:"name" binding:"required" example:"Summer flyer v2"`
	TargetURL string `json:"target_url" example:"https://example.com/menu"`
}

// UpgradeCampaignRequest upgrades a campaign to a richer type
type UpgradeCampaignRequest struct {
	CampaignType string `json:"campaign_type" binding:"required" example:"links"`
}

// UpdateSocialLinksRequest replaces the campaign's social link set
type UpdateSocialLinksRequest struct {
	SocialLinks map[string]string `json:"social_links" binding:"required"`
}

// UpdateQRPlacementRequest updates QR placement on the design image
type UpdateQRPlacementRequest struct {
	X        *float64 `json:"x" binding:"required"`
	Y        *float64 `json:"y" binding:"required"`
	Scale    float64  `json:"scale" example:"1.0"`
	Rotation float64  `json:"rotation" example:"0"`
}

// QRPlacement is the QR position on the design image
type QRPlacement struct {
	X        float64 `json:"x" example:"120"`
	Y        float64 `json:"y" example:"340"`
	Scale    float64 `json:"scale" example:"1.0"`
	Rotation float64 `json:"rotation" example:"0"`
}

// CampaignResponse represents the response for campaign operations
type CampaignResponse struct {
	ID              string            `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID          string            `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name            string            `json:"name" example:"Summer flyer"`
	CampaignType    string            `json:"campaign_type" example:"redirect"`
	IsPaused        bool              `json:"is_paused" example:"false"`
	TargetURL       string            `json:"target_url" example:"https://example.com/menu"`
	DesignFileID    *string           `json:"design_file_id,omitempty"`
	ArtifactFileID  *string           `json:"artifact_file_id,omitempty"`
	LogoFileID      *string           `json:"logo_file_id,omitempty"`
	VideoFileIDs    []string          `json:"video_file_ids"`
	DocumentFileIDs []string          `json:"document_file_ids"`
	QRPosition      QRPlacement       `json:"qr_position"`
	QRDesign        JSON              `json:"qr_design,omitempty"`
	SocialLinks     map[string]string `json:"social_links"`
	LandingURL      string            `json:"landing_url" example:"https://phygital.app/c/550e8400"`
	RedirectURL     string            `json:"redirect_url" example:"https://phygital.app/r/550e8400"`
	CreatedAt       string            `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt       string            `json:"updated_at" example:"2025-01-09T10:30:00Z"`
}
