package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/thankiuday/Phygital-sub005/internal/services"
	"github.com/thankiuday/Phygital-sub005/internal/services/excel"
	"github.com/thankiuday/Phygital-sub005/internal/utils"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	scanService     *services.ScanService
	campaignService *services.CampaignService
	excelService    *excel.Service
	exportsDir      string
}

func NewScanHandler(scanService *services.ScanService, campaignService *services.CampaignService, excelService *excel.Service, exportsDir string) *ScanHandler {
	return &ScanHandler{
		scanService:     scanService,
		campaignService: campaignService,
		excelService:    excelService,
		exportsDir:      exportsDir,
	}
}

// ownsCampaign aborts with 404 unless the user owns the campaign
func (h *ScanHandler) ownsCampaign(c *gin.Context, userID, campaignID string) bool {
	if _, err := h.campaignService.GetCampaign(userID, campaignID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load campaign", "details": err.Error()})
		}
		return false
	}
	return true
}

// GetScans godoc
// @Summary List scan events
// @Description List scan events for a campaign, newest first (user must own the campaign)
// @Tags scans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/scans [get]
func (h *ScanHandler) GetScans(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	if !h.ownsCampaign(c, userID, campaignID) {
		return
	}

	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	scans, total, err := h.scanService.GetScans(campaignID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get scans", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scans":      scans,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// GetScanStats godoc
// @Summary Get scan statistics
// @Description Get total, 7-day and 30-day scan counts for a campaign (user must own it)
// @Tags scans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.ScanStatsResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/scans/stats [get]
func (h *ScanHandler) GetScanStats(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	if !h.ownsCampaign(c, userID, campaignID) {
		return
	}

	stats, err := h.scanService.GetStats(campaignID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get scan stats", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportScans godoc
// @Summary Export scan events to Excel
// @Description Export a campaign's scan history to an Excel workbook and redirect to the download URL
// @Tags scans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 302 {string} string "Redirect to download URL"
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/scans/export [get]
func (h *ScanHandler) ExportScans(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	if !h.ownsCampaign(c, userID, campaignID) {
		return
	}

	result, err := h.excelService.ExportCampaignScans(campaignID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": result.Message})
		return
	}

	downloadURL := fmt.Sprintf("/api/v1/exports/%s", result.Filename)
	c.Redirect(http.StatusFound, downloadURL)
}

// DownloadExport godoc
// @Summary Download an exported Excel file
// @Description Download a previously exported scan report
// @Tags scans
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param filename path string true "Export filename"
// @Success 200 {file} binary "Excel file"
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/exports/{filename} [get]
func (h *ScanHandler) DownloadExport(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	filePath := filepath.Join(h.exportsDir, filename)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Header("Cache-Control", "must-revalidate")
	c.Header("Pragma", "public")

	c.File(filePath)
}
