package repository

import (
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create creates a new file record
func (r *FileRepository) Create(file *models.File) error {
	return r.db.Create(file).Error
}

// GetByID retrieves a file by ID
func (r *FileRepository) GetByID(id string) (*models.File, error) {
	var file models.File
	err := r.db.First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetByUserID retrieves all files for a user
func (r *FileRepository) GetByUserID(userID string) ([]*models.File, error) {
	var files []*models.File
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&files).Error
	return files, err
}

// GetByCampaignAndKind retrieves a campaign's files of one kind
func (r *FileRepository) GetByCampaignAndKind(campaignID, kind string) ([]*models.File, error) {
	var files []*models.File
	err := r.db.Where("campaign_id = ? AND kind = ?", campaignID, kind).
		Order("created_at ASC").
		Find(&files).Error
	return files, err
}

// CountByCampaignAndKind counts a campaign's files of one kind
func (r *FileRepository) CountByCampaignAndKind(campaignID, kind string) (int64, error) {
	var count int64
	err := r.db.Model(&models.File{}).
		Where("campaign_id = ? AND kind = ?", campaignID, kind).
		Count(&count).Error
	return count, err
}

// Delete deletes a file record
func (r *FileRepository) Delete(id string) error {
	return r.db.Delete(&models.File{}, "id = ?", id).Error
}

// DeleteByCampaignAndKind deletes a campaign's file records of one kind
func (r *FileRepository) DeleteByCampaignAndKind(campaignID, kind string) error {
	return r.db.Where("campaign_id = ? AND kind = ?", campaignID, kind).Delete(&models.File{}).Error
}
