package handlers

import (
	"net/http"
	"strings"

	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/services"

	"github.com/gin-gonic/gin"
)

type QRHandler struct {
	qrService   *services.QRService
	fileService *services.FileService
}

func NewQRHandler(qrService *services.QRService, fileService *services.FileService) *QRHandler {
	return &QRHandler{
		qrService:   qrService,
		fileService: fileService,
	}
}

// QRPreviewRequest asks for a QR preview with an optional design override
type QRPreviewRequest struct {
	Design models.JSON `json:"design"`
	Size   int         `json:"size" example:"512"`
}

// RenderPreview godoc
// @Summary Render a QR preview
// @Description Render the campaign's QR code as a PNG. An optional design document overrides the stored
// @Description design without saving it, so the editor can preview changes live. Repeat requests with the
// @Description same design inside the debounce window reuse the cached render.
// @Tags qr
// @Accept json
// @Produce png
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body handlers.QRPreviewRequest false "Preview request"
// @Success 200 {file} binary "PNG image"
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/qr/preview [post]
func (h *QRHandler) RenderPreview(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	var req QRPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Empty body renders the stored design at the default size
		req = QRPreviewRequest{}
	}

	png, err := h.qrService.RenderPreview(userID, campaignID, req.Design, req.Size)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		if strings.Contains(err.Error(), "invalid") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR preview", "details": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// GenerateArtifact godoc
// @Summary Generate the composite design
// @Description Compose the QR code onto the campaign's design image at the stored placement and save the
// @Description result as the campaign's artifact file. Requires an uploaded design and a QR placement.
// @Tags qr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 201 {object} models.FileResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/qr/artifact [post]
func (h *QRHandler) GenerateArtifact(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	file, err := h.qrService.GenerateArtifact(userID, campaignID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		if strings.Contains(err.Error(), "design") || strings.Contains(err.Error(), "placement") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate artifact", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, h.fileService.FileToResponse(file))
}
