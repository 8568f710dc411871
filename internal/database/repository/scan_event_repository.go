package repository

import (
	"time"

	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/utils"

	"gorm.io/gorm"
)

type ScanEventRepository struct {
	db *gorm.DB
}

func NewScanEventRepository(db *gorm.DB) *ScanEventRepository {
	return &ScanEventRepository{db: db}
}

// Create persists a scan event
func (r *ScanEventRepository) Create(event *models.ScanEvent) error {
	return r.db.Create(event).Error
}

// GetByCampaignID retrieves a campaign's scan events, newest first
func (r *ScanEventRepository) GetByCampaignID(campaignID string, page, pageSize int) ([]*models.ScanEvent, int64, error) {
	var events []*models.ScanEvent
	var total int64
	query := r.db.Model(&models.ScanEvent{}).Where("campaign_id = ?", campaignID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("occurred_at DESC").
		Offset(utils.CalculateOffset(page, pageSize)).Limit(pageSize).
		Find(&events).Error
	return events, total, err
}

// GetAllByCampaignID retrieves every scan event for a campaign, oldest
// first, for export
func (r *ScanEventRepository) GetAllByCampaignID(campaignID string) ([]*models.ScanEvent, error) {
	var events []*models.ScanEvent
	err := r.db.Where("campaign_id = ?", campaignID).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

// CountSince counts a campaign's scans at or after the given time
func (r *ScanEventRepository) CountSince(campaignID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ScanEvent{}).
		Where("campaign_id = ? AND occurred_at >= ?", campaignID, since).
		Count(&count).Error
	return count, err
}

// Stats summarizes a campaign's scans
func (r *ScanEventRepository) Stats(campaignID string) (*models.ScanStatsResponse, error) {
	var total int64
	err := r.db.Model(&models.ScanEvent{}).Where("campaign_id = ?", campaignID).Count(&total).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	last7, err := r.CountSince(campaignID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	last30, err := r.CountSince(campaignID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &models.ScanStatsResponse{
		CampaignID: campaignID,
		Total:      total,
		Last7Days:  last7,
		Last30Days: last30,
	}, nil
}
