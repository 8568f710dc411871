package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/utils"
)

var (
	// ErrCampaignNotFound means the scanned id matches no campaign
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrCampaignPaused means the campaign exists but its owner paused it
	ErrCampaignPaused = errors.New("campaign is paused")
)

// Target kinds returned by ResolveTarget
const (
	TargetExternal    = "external"
	TargetLandingPage = "landing_page"
)

// Target is where a scanned QR code should send the visitor
type Target struct {
	Kind string // external or landing_page
	URL  string // absolute URL for external targets
	Path string // server-relative path for landing pages
}

// RedirectService resolves the stable /r/:id scan URL to the campaign's
// current destination. The QR code never encodes the destination itself,
// so upgrading a campaign's type redirects old printed codes too.
type RedirectService struct {
	campaignRepo *repository.CampaignRepository
}

func NewRedirectService(campaignRepo *repository.CampaignRepository) *RedirectService {
	return &RedirectService{campaignRepo: campaignRepo}
}

// ResolveTarget resolves a campaign id to its redirect target. Redirect
// campaigns go to their external URL; richer types go to the hosted
// landing page.
func (s *RedirectService) ResolveTarget(campaignID string) (*Target, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}

	if campaign.IsPaused {
		return nil, ErrCampaignPaused
	}

	if campaign.CampaignType == models.CampaignTypeRedirect {
		url, err := utils.NormalizeURL(campaign.TargetURL)
		if err != nil {
			// a redirect campaign without a usable destination is not
			// servable
			return nil, ErrCampaignNotFound
		}
		return &Target{Kind: TargetExternal, URL: url}, nil
	}

	return &Target{Kind: TargetLandingPage, Path: "/c/" + campaign.ID}, nil
}
