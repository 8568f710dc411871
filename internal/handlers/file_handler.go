package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/services"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// UploadFile godoc
// @Summary Upload a file
// @Description Upload a file of a given kind (design, video, document, logo) for a campaign.
// @Description Each kind has its own format and size limits: design is JPEG up to 20MB, video is MP4 up to 50MB,
// @Description documents are PDF up to 20MB, logos are PNG or SVG up to 2MB. Videos and documents are capped at 5 per campaign.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param campaign_id formData string true "Campaign ID the file belongs to"
// @Param kind formData string true "File kind (design, video, document, logo)"
// @Success 201 {object} models.FileResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 413 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/files/upload [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	campaignID := c.PostForm("campaign_id")
	kind := c.PostForm("kind")
	if campaignID == "" || kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaign_id and kind are required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided", "details": err.Error()})
		return
	}

	file, err := h.fileService.UploadFile(userID, campaignID, kind, fileHeader)
	if err != nil {
		if strings.Contains(err.Error(), "exceeds") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		if strings.Contains(err.Error(), "unknown file kind") || strings.Contains(err.Error(), "must be") || strings.Contains(err.Error(), "at most") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, h.fileService.FileToResponse(file))
}

// GetFile godoc
// @Summary Get file metadata
// @Description Get metadata for a file the authenticated user owns
// @Tags files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} models.FileResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/files/{id} [get]
func (h *FileHandler) GetFile(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	fileID := c.Param("id")

	file, err := h.fileService.GetFile(fileID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "access denied") {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get file", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.fileService.FileToResponse(file))
}

// DownloadFile godoc
// @Summary Download file
// @Description Download a file the authenticated user owns
// @Tags files
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {file} binary "File content"
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/files/{id}/download [get]
func (h *FileHandler) DownloadFile(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	fileID := c.Param("id")

	file, reader, err := h.fileService.DownloadFile(fileID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "access denied") {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download file", "details": err.Error()})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.OriginalName))
	c.Header("Content-Type", file.MimeType)
	c.File(file.FilePath)
}

// DownloadFileByToken godoc
// @Summary Download file with a signed token
// @Description Download a file using a short-lived signed token instead of a bearer token. Used for landing pages.
// @Tags files
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary "File content"
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/files/download [get]
func (h *FileHandler) DownloadFileByToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	file, reader, err := h.fileService.DownloadFileByToken(token)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired download token"})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.OriginalName))
	c.Header("Content-Type", file.MimeType)
	c.File(file.FilePath)
}

// GetSignedDownloadURL godoc
// @Summary Get signed download URL
// @Description Generate a short-lived signed URL for a file the authenticated user owns
// @Tags files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/files/{id}/signed-url [get]
func (h *FileHandler) GetSignedDownloadURL(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	fileID := c.Param("id")

	url, err := h.fileService.GenerateSignedDownloadURL(fileID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "access denied") {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GetUserFiles godoc
// @Summary List user's files
// @Description List all files uploaded by the authenticated user
// @Tags files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FileResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/files [get]
func (h *FileHandler) GetUserFiles(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	files, err := h.fileService.GetUserFiles(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files", "details": err.Error()})
		return
	}

	responses := make([]models.FileResponse, 0, len(files))
	for _, f := range files {
		responses = append(responses, h.fileService.FileToResponse(f))
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteFile godoc
// @Summary Delete file
// @Description Delete a file the authenticated user owns
// @Tags files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/files/{id} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	fileID := c.Param("id")

	if err := h.fileService.DeleteFile(fileID, userID); err != nil {
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "access denied") {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
