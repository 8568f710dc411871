package models

import (
	"time"
)

// ScanEvent represents one resolution of a campaign's redirect URL.
// Events are published to the scan queue on the hot path and persisted
// by the consumer, so a slow database never delays a redirect.
type ScanEvent struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CampaignID string    `json:"campaign_id" gorm:"not null;index;type:uuid"`
	OccurredAt time.Time `json:"occurred_at" gorm:"not null;index"`
	ClientIP   string    `json:"client_ip" gorm:"type:varchar(45)"`
	UserAgent  string    `json:"user_agent" gorm:"type:varchar(500)"`
	Referer    string    `json:"referer" gorm:"type:varchar(500)"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Campaign Campaign `json:"-" gorm:"foreignKey:CampaignID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the ScanEvent model
func (ScanEvent) TableName() string {
	return "scan_events"
}

// ScanStatsResponse summarizes scans for a campaign
type ScanStatsResponse struct {
	CampaignID string `json:"campaign_id"`
	Total      int64  `json:"total"`
	Last7Days  int64  `json:"last_7_days"`
	Last30Days int64  `json:"last_30_days"`
}
