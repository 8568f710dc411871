package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thankiuday/Phygital-sub005/internal/config"
	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/utils"
)

type CampaignService struct {
	campaignRepo *repository.CampaignRepository
	userRepo     *repository.UserRepository
	baseURL      string
}

func NewCampaignService(
	campaignRepo *repository.CampaignRepository,
	userRepo *repository.UserRepository,
	baseURL string,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

// CreateCampaign creates a new campaign for a user
func (s *CampaignService) CreateCampaign(userID string, req *models.CreateCampaignRequest) (*models.CampaignResponse, error) {
	// Verify user exists
	_, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if !config.KnownCampaignType(req.CampaignType) {
		return nil, fmt.Errorf("unknown campaign type %q", req.CampaignType)
	}

	campaign := &models.Campaign{
		UserID:       userID,
		Name:         req.Name,
		CampaignType: req.CampaignType,
		QRScale:      1,
	}

	// Redirect campaigns need a destination up front; richer types get a
	// hosted landing page after finalization
	if req.TargetURL != "" {
		normalized, err := utils.NormalizeURL(req.TargetURL)
		if err != nil {
			return nil, fmt.Errorf("invalid target url: %w", err)
		}
		campaign.TargetURL = normalized
	} else if req.CampaignType == models.CampaignTypeRedirect {
		return nil, errors.New("target_url is required for redirect campaigns")
	}

	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	// Landing page path is derived from the id, so it is only known now
	if campaign.CampaignType != models.CampaignTypeRedirect {
		campaign.LandingURL = s.baseURL + "/c/" + campaign.ID
		if err := s.campaignRepo.UpdateFields(campaign.ID, map[string]interface{}{"landing_url": campaign.LandingURL}); err != nil {
			return nil, fmt.Errorf("failed to set landing url: %w", err)
		}
	}

	return s.toResponse(campaign), nil
}

// GetCampaignsByUser returns all campaigns owned by a user
func (s *CampaignService) GetCampaignsByUser(userID string) ([]*models.CampaignResponse, error) {
	campaigns, err := s.campaignRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	responses := make([]*models.CampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		responses[i] = s.toResponse(campaign)
	}
	return responses, nil
}

// GetCampaignByID returns a campaign owned by the user
func (s *CampaignService) GetCampaignByID(userID, campaignID string) (*models.CampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}
	return s.toResponse(campaign), nil
}

// GetCampaign returns the raw campaign model for a user
func (s *CampaignService) GetCampaign(userID, campaignID string) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}
	return campaign, nil
}

// UpdateCampaign updates campaign metadata
func (s *CampaignService) UpdateCampaign(userID, campaignID string, req *models.UpdateCampaignRequest) (*models.CampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}

	campaign.Name = req.Name
	if req.TargetURL != "" {
		normalized, err := utils.NormalizeURL(req.TargetURL)
		if err != nil {
			return nil, fmt.Errorf("invalid target url: %w", err)
		}
		campaign.TargetURL = normalized
	}

	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return s.toResponse(campaign), nil
}

// UpgradeCampaign upgrades a campaign to a richer type. Existing payload is
// preserved; printed QR codes keep working because the redirect URL does
// not change.
func (s *CampaignService) UpgradeCampaign(userID, campaignID string, req *models.UpgradeCampaignRequest) (*models.CampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}

	newRank := models.CampaignTypeRank(req.CampaignType)
	if newRank < 0 {
		return nil, fmt.Errorf("unknown campaign type %q", req.CampaignType)
	}
	if newRank <= models.CampaignTypeRank(campaign.CampaignType) {
		return nil, fmt.Errorf("cannot upgrade from %s to %s", campaign.CampaignType, req.CampaignType)
	}

	campaign.CampaignType = req.CampaignType
	if campaign.LandingURL == "" {
		campaign.LandingURL = s.baseURL + "/c/" + campaign.ID
	}

	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, fmt.Errorf("failed to upgrade campaign: %w", err)
	}
	return s.toResponse(campaign), nil
}

// PauseCampaign pauses a campaign; its redirect URL answers 403 until resumed
func (s *CampaignService) PauseCampaign(userID, campaignID string) error {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return errors.New("campaign not found")
	}
	return s.campaignRepo.SetPaused(campaign.ID, true)
}

// ResumeCampaign resumes a paused campaign
func (s *CampaignService) ResumeCampaign(userID, campaignID string) error {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return errors.New("campaign not found")
	}
	return s.campaignRepo.SetPaused(campaign.ID, false)
}

// DeleteCampaign deletes a campaign owned by the user
func (s *CampaignService) DeleteCampaign(userID, campaignID string) error {
	_, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return errors.New("campaign not found")
	}
	return s.campaignRepo.DeleteByUserIDAndID(userID, campaignID)
}

// UpdateSocialLinks replaces the campaign's social link set. Link values
// must be URLs or phone numbers; URLs are normalized.
func (s *CampaignService) UpdateSocialLinks(userID, campaignID string, req *models.UpdateSocialLinksRequest) (*models.CampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}

	links := models.JSON{}
	for platform, value := range req.SocialLinks {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if utils.IsContactLink(platform) {
			links[platform] = value
			continue
		}
		normalized, err := utils.NormalizeURL(value)
		if err != nil {
			return nil, fmt.Errorf("invalid link for %s: %w", platform, err)
		}
		links[platform] = normalized
	}
	campaign.SocialLinks = links

	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, fmt.Errorf("failed to update social links: %w", err)
	}
	return s.toResponse(campaign), nil
}

// UpdateQRPlacement stores the QR position on the design image
func (s *CampaignService) UpdateQRPlacement(userID, campaignID string, req *models.UpdateQRPlacementRequest) (*models.CampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}

	campaign.QRPositionX = *req.X
	campaign.QRPositionY = *req.Y
	if req.Scale > 0 {
		campaign.QRScale = req.Scale
	}
	campaign.QRRotation = req.Rotation

	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, fmt.Errorf("failed to update QR placement: %w", err)
	}
	return s.toResponse(campaign), nil
}

// UpdateQRDesign replaces the campaign's QR design payload
func (s *CampaignService) UpdateQRDesign(userID, campaignID string, design models.JSON) (*models.CampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}

	campaign.QRDesign = design
	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, fmt.Errorf("failed to update QR design: %w", err)
	}
	return s.toResponse(campaign), nil
}

// GetAllCampaigns returns all campaigns with pagination (admin only)
func (s *CampaignService) GetAllCampaigns(page, pageSize int) ([]*models.CampaignResponse, int64, error) {
	campaigns, total, err := s.campaignRepo.GetAll(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	responses := make([]*models.CampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		responses[i] = s.toResponse(campaign)
	}
	return responses, total, nil
}

// RedirectURL returns the stable scan URL for a campaign. This is what the
// QR code encodes, regardless of campaign type.
func (s *CampaignService) RedirectURL(campaignID string) string {
	return s.baseURL + "/r/" + campaignID
}

// toResponse converts Campaign model to CampaignResponse
func (s *CampaignService) toResponse(campaign *models.Campaign) *models.CampaignResponse {
	videoIDs := campaign.VideoIDs()
	if videoIDs == nil {
		videoIDs = []string{}
	}
	documentIDs := campaign.DocumentIDs()
	if documentIDs == nil {
		documentIDs = []string{}
	}

	return &models.CampaignResponse{
		ID:              campaign.ID,
		UserID:          campaign.UserID,
		Name:            campaign.Name,
		CampaignType:    campaign.CampaignType,
		IsPaused:        campaign.IsPaused,
		TargetURL:       campaign.TargetURL,
		DesignFileID:    campaign.DesignFileID,
		ArtifactFileID:  campaign.ArtifactFileID,
		LogoFileID:      campaign.LogoFileID,
		VideoFileIDs:    videoIDs,
		DocumentFileIDs: documentIDs,
		QRPosition: models.QRPlacement{
			X:        campaign.QRPositionX,
			Y:        campaign.QRPositionY,
			Scale:    campaign.QRScale,
			Rotation: campaign.QRRotation,
		},
		QRDesign:    campaign.QRDesign,
		SocialLinks: campaign.SocialLinkMap(),
		LandingURL:  campaign.LandingURL,
		RedirectURL: s.RedirectURL(campaign.ID),
		CreatedAt:   campaign.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   campaign.UpdatedAt.Format(time.RFC3339),
	}
}
