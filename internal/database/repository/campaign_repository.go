package repository

import (
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/utils"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// GetByID retrieves a campaign by ID
func (r *CampaignRepository) GetByID(id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetByUserID retrieves all campaigns for a specific user
func (r *CampaignRepository) GetByUserID(userID string) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

// GetByUserIDAndID retrieves a campaign by user ID and campaign ID
func (r *CampaignRepository) GetByUserIDAndID(userID, campaignID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.Where("user_id = ? AND id = ?", userID, campaignID).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Update updates a campaign
func (r *CampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// UpdateFields updates selected columns on a campaign
func (r *CampaignRepository) UpdateFields(campaignID string, fields map[string]interface{}) error {
	return r.db.Model(&models.Campaign{}).Where("id = ?", campaignID).Updates(fields).Error
}

// SetPaused pauses or resumes a campaign
func (r *CampaignRepository) SetPaused(campaignID string, paused bool) error {
	return r.db.Model(&models.Campaign{}).Where("id = ?", campaignID).Update("is_paused", paused).Error
}

// DeleteByUserIDAndID deletes a campaign by user ID and campaign ID
func (r *CampaignRepository) DeleteByUserIDAndID(userID, campaignID string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, campaignID).Delete(&models.Campaign{}).Error
}

// CountByUserID counts campaigns owned by a user
func (r *CampaignRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Campaign{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// GetAll retrieves all campaigns with pagination (admin only)
func (r *CampaignRepository) GetAll(page, pageSize int) ([]*models.Campaign, int64, error) {
	var campaigns []*models.Campaign
	var total int64
	query := r.db.Model(&models.Campaign{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("User").
		Order("created_at DESC").
		Offset(utils.CalculateOffset(page, pageSize)).Limit(pageSize).
		Find(&campaigns).Error
	return campaigns, total, err
}
