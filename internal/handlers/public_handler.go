package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/services"
	"github.com/thankiuday/Phygital-sub005/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PublicHandler serves landing page data for scanned campaigns. No
// authentication: these endpoints back the page a visitor lands on.
type PublicHandler struct {
	campaignRepo *repository.CampaignRepository
	fileService  *services.FileService
}

func NewPublicHandler(db *gorm.DB, fileService *services.FileService) *PublicHandler {
	return &PublicHandler{
		campaignRepo: repository.NewCampaignRepository(db),
		fileService:  fileService,
	}
}

// PublicLink is one resolved entry on a links landing page
type PublicLink struct {
	Platform string `json:"platform" example:"instagram"`
	Label    string `json:"label" example:"Instagram"`
	Href     string `json:"href" example:"https://instagram.com/acme"`
}

// PublicFileRef points a landing page at downloadable content
type PublicFileRef struct {
	Name string `json:"name" example:"menu.pdf"`
	URL  string `json:"url"`
}

// PublicCampaignResponse is the landing page payload for a campaign
type PublicCampaignResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CampaignType string          `json:"campaign_type"`
	Links        []PublicLink    `json:"links"`
	Videos       []PublicFileRef `json:"videos"`
	Documents    []PublicFileRef `json:"documents"`
}

// GetPublicCampaign godoc
// @Summary Get landing page data
// @Description Get the public landing page payload for a campaign: resolved social links (contact
// @Description entries become tel: or wa.me hrefs) and signed URLs for hosted videos and documents.
// @Tags public
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} handlers.PublicCampaignResponse
// @Failure 403 {object} map[string]interface{} "Campaign is paused"
// @Failure 404 {object} map[string]interface{} "Campaign not found"
// @Failure 500 {object} map[string]interface{}
// @Router /public/campaigns/{id} [get]
func (h *PublicHandler) GetPublicCampaign(c *gin.Context) {
	campaignID := c.Param("id")

	campaign, err := h.campaignRepo.GetByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load campaign"})
		return
	}
	if campaign.IsPaused {
		c.JSON(http.StatusForbidden, gin.H{"error": "This campaign is currently unavailable"})
		return
	}

	response := PublicCampaignResponse{
		ID:           campaign.ID,
		Name:         campaign.Name,
		CampaignType: campaign.CampaignType,
		Links:        []PublicLink{},
		Videos:       []PublicFileRef{},
		Documents:    []PublicFileRef{},
	}

	links := campaign.SocialLinkMap()
	platforms := make([]string, 0, len(links))
	for platform := range links {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		value := links[platform]
		href := value
		if utils.IsContactLink(platform) {
			href = utils.ContactHref(platform, value)
		}
		response.Links = append(response.Links, PublicLink{
			Platform: platform,
			Label:    utils.PlatformLabel(platform),
			Href:     href,
		})
	}

	response.Videos = h.fileRefs(campaign.UserID, campaign.VideoIDs())
	response.Documents = h.fileRefs(campaign.UserID, campaign.DocumentIDs())

	c.JSON(http.StatusOK, response)
}

// fileRefs resolves file ids to signed download URLs. Files that fail to
// resolve are skipped so one broken reference cannot blank the page.
func (h *PublicHandler) fileRefs(ownerID string, fileIDs []string) []PublicFileRef {
	refs := make([]PublicFileRef, 0, len(fileIDs))
	for _, id := range fileIDs {
		file, err := h.fileService.GetFile(id, ownerID)
		if err != nil {
			logrus.Warnf("Skipping unresolvable file %s: %v", id, err)
			continue
		}
		url, err := h.fileService.GenerateSignedDownloadURL(id, ownerID)
		if err != nil {
			logrus.Warnf("Failed to sign download URL for file %s: %v", id, err)
			continue
		}
		refs = append(refs, PublicFileRef{Name: file.OriginalName, URL: url})
	}
	return refs
}
