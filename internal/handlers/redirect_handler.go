package handlers

import (
	"errors"
	"net/http"

	"github.com/thankiuday/Phygital-sub005/internal/services"

	"github.com/gin-gonic/gin"
)

// RedirectHandler serves the stable scan URL printed inside every QR
// code. It stays DB-write-free: scan events go to the queue and a
// consumer persists them off the hot path.
type RedirectHandler struct {
	redirectService *services.RedirectService
	scanService     *services.ScanService
}

func NewRedirectHandler(redirectService *services.RedirectService, scanService *services.ScanService) *RedirectHandler {
	return &RedirectHandler{
		redirectService: redirectService,
		scanService:     scanService,
	}
}

// Redirect godoc
// @Summary Resolve a scanned QR code
// @Description Resolve the stable scan URL to the campaign's current destination. Redirect campaigns
// @Description go straight to their external URL; richer types go to the hosted landing page. Each
// @Description resolution records a scan event.
// @Tags public
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 302 {string} string "Redirect to destination"
// @Failure 403 {object} map[string]interface{} "Campaign is paused"
// @Failure 404 {object} map[string]interface{} "Campaign not found"
// @Failure 500 {object} map[string]interface{}
// @Router /r/{id} [get]
func (h *RedirectHandler) Redirect(c *gin.Context) {
	campaignID := c.Param("id")

	target, err := h.redirectService.ResolveTarget(campaignID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCampaignNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		case errors.Is(err, services.ErrCampaignPaused):
			c.JSON(http.StatusForbidden, gin.H{"error": "This campaign is currently unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve campaign"})
		}
		return
	}

	h.scanService.RecordScan(campaignID, c.ClientIP(), c.GetHeader("User-Agent"), c.GetHeader("Referer"))

	if target.Kind == services.TargetExternal {
		c.Redirect(http.StatusFound, target.URL)
		return
	}
	c.Redirect(http.StatusFound, target.Path)
}
