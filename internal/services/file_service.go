package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/services/auth"
)

// Per-kind upload limits, enforced before anything is written to disk
const (
	MaxDesignSize = 20 << 20 // 20MB JPEG
	MaxVideoSize  = 50 << 20 // 50MB MP4
	MaxLogoSize   = 2 << 20  // 2MB PNG/SVG
	MaxDocSize    = 20 << 20 // 20MB PDF

	MaxVideosPerCampaign    = 5
	MaxDocumentsPerCampaign = 5
)

type FileService struct {
	fileRepo    *repository.FileRepository
	authService *auth.AuthService
	baseURL     string
	storageDir  string
}

func NewFileService(fileRepo *repository.FileRepository, authService *auth.AuthService, baseURL string) *FileService {
	// Default storage directory
	storageDir := os.Getenv("FILE_STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./storage/files"
	}

	// Create storage directory if it doesn't exist
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		logrus.Warnf("Failed to create storage directory %s: %v", storageDir, err)
	}

	return &FileService{
		fileRepo:    fileRepo,
		authService: authService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		storageDir:  storageDir,
	}
}

// kindRule describes what one file kind accepts
type kindRule struct {
	mimeTypes []string
	exts      []string
	maxSize   int64
	sizeLabel string
}

var kindRules = map[string]kindRule{
	models.FileKindDesign: {
		mimeTypes: []string{"image/jpeg"},
		exts:      []string{".jpg", ".jpeg"},
		maxSize:   MaxDesignSize,
		sizeLabel: "20MB",
	},
	models.FileKindVideo: {
		mimeTypes: []string{"video/mp4"},
		exts:      []string{".mp4"},
		maxSize:   MaxVideoSize,
		sizeLabel: "50MB",
	},
	models.FileKindDocument: {
		mimeTypes: []string{"application/pdf"},
		exts:      []string{".pdf"},
		maxSize:   MaxDocSize,
		sizeLabel: "20MB",
	},
	models.FileKindLogo: {
		mimeTypes: []string{"image/png", "image/svg+xml"},
		exts:      []string{".png", ".svg"},
		maxSize:   MaxLogoSize,
		sizeLabel: "2MB",
	},
}

// ValidateUpload checks a file against its kind's rules without touching
// disk. The size error names the limit so the user knows what to fix.
func (s *FileService) ValidateUpload(kind string, fileHeader *multipart.FileHeader) error {
	rule, ok := kindRules[kind]
	if !ok {
		return fmt.Errorf("unknown file kind %q", kind)
	}

	if fileHeader.Size > rule.maxSize {
		return fmt.Errorf("%s file exceeds the %s limit", kind, rule.sizeLabel)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	extOK := false
	for _, allowed := range rule.exts {
		if ext == allowed {
			extOK = true
			break
		}
	}
	if !extOK {
		return fmt.Errorf("%s files must be one of %s", kind, strings.Join(rule.exts, ", "))
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType != "" {
		mimeOK := false
		for _, allowed := range rule.mimeTypes {
			if strings.HasPrefix(mimeType, allowed) {
				mimeOK = true
				break
			}
		}
		if !mimeOK {
			return fmt.Errorf("%s files must be %s", kind, strings.Join(rule.mimeTypes, " or "))
		}
	}

	return nil
}

// checkCampaignQuota enforces per-campaign file count limits
func (s *FileService) checkCampaignQuota(campaignID, kind string) error {
	var limit int64
	switch kind {
	case models.FileKindVideo:
		limit = MaxVideosPerCampaign
	case models.FileKindDocument:
		limit = MaxDocumentsPerCampaign
	default:
		return nil
	}

	count, err := s.fileRepo.CountByCampaignAndKind(campaignID, kind)
	if err != nil {
		return fmt.Errorf("failed to count campaign files: %w", err)
	}
	if count >= limit {
		return fmt.Errorf("campaign already has the maximum of %d %s files", limit, kind)
	}
	return nil
}

// UploadFile validates and stores an uploaded file of the given kind. A
// design upload replaces any previous design for the campaign.
func (s *FileService) UploadFile(userID, campaignID, kind string, fileHeader *multipart.FileHeader) (*models.File, error) {
	// Validate before anything touches disk
	if err := s.ValidateUpload(kind, fileHeader); err != nil {
		return nil, err
	}
	if campaignID != "" {
		if err := s.checkCampaignQuota(campaignID, kind); err != nil {
			return nil, err
		}
	}

	// Open uploaded file
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Generate unique filename
	fileID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	fileName := fileID + ext
	originalName := fileHeader.Filename

	// Create user-specific directory
	userDir := filepath.Join(s.storageDir, userID)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create user directory: %w", err)
	}

	// Full file path
	filePath := filepath.Join(userDir, fileName)

	// Create destination file
	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// Copy file content
	fileSize, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(filePath) // Clean up on error
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	// Get MIME type
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	// Create file record in database
	fileModel := &models.File{
		UserID:       userID,
		Kind:         kind,
		FileName:     fileName,
		OriginalName: originalName,
		MimeType:     mimeType,
		FileSize:     fileSize,
		FilePath:     filePath,
	}
	if campaignID != "" {
		fileModel.CampaignID = &campaignID
	}

	if err := s.fileRepo.Create(fileModel); err != nil {
		os.Remove(filePath) // Clean up on error
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	logrus.Infof("File uploaded successfully: %s (ID: %s, Kind: %s, Size: %d bytes)", originalName, fileModel.ID, kind, fileSize)

	return fileModel, nil
}

// SaveGenerated stores server-generated bytes (QR artifacts) as a file
// record of the given kind.
func (s *FileService) SaveGenerated(userID, campaignID, kind, ext, mimeType string, data []byte) (*models.File, error) {
	fileID := uuid.New().String()
	fileName := fileID + ext

	userDir := filepath.Join(s.storageDir, userID)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create user directory: %w", err)
	}

	filePath := filepath.Join(userDir, fileName)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	fileModel := &models.File{
		UserID:       userID,
		Kind:         kind,
		FileName:     fileName,
		OriginalName: fileName,
		MimeType:     mimeType,
		FileSize:     int64(len(data)),
		FilePath:     filePath,
	}
	if campaignID != "" {
		fileModel.CampaignID = &campaignID
	}

	if err := s.fileRepo.Create(fileModel); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	return fileModel, nil
}

// GetFile retrieves a file by ID
func (s *FileService) GetFile(fileID string, userID string) (*models.File, error) {
	file, err := s.fileRepo.GetByID(fileID)
	if err != nil {
		return nil, fmt.Errorf("file not found: %w", err)
	}

	// Check access permission - user can only access their own files
	if file.UserID != userID {
		return nil, errors.New("access denied: file does not belong to user")
	}

	return file, nil
}

// ReadFile returns the raw bytes of a user's file
func (s *FileService) ReadFile(fileID, userID string) (*models.File, []byte, error) {
	file, err := s.GetFile(fileID, userID)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(file.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return file, data, nil
}

// DownloadFile returns the file content for download (requires user authentication)
func (s *FileService) DownloadFile(fileID string, userID string) (*models.File, *os.File, error) {
	file, err := s.GetFile(fileID, userID)
	if err != nil {
		return nil, nil, err
	}

	// Open file from storage
	f, err := os.Open(file.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, f, nil
}

// DownloadFileByToken returns the file content for download using a signed
// token (the token already proves access)
func (s *FileService) DownloadFileByToken(token string) (*models.File, *os.File, error) {
	_, fileID, err := s.authService.ValidateDownloadToken(token)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid download token: %w", err)
	}

	file, err := s.fileRepo.GetByID(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("file not found: %w", err)
	}

	f, err := os.Open(file.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, f, nil
}

// DeleteFile removes a user's file from storage and the database
func (s *FileService) DeleteFile(fileID, userID string) error {
	file, err := s.GetFile(fileID, userID)
	if err != nil {
		return err
	}

	if err := s.fileRepo.Delete(file.ID); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	if err := os.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Failed to remove file from storage: %v", err)
	}
	return nil
}

// GetDownloadURL generates download URL for a file (requires authentication)
func (s *FileService) GetDownloadURL(fileID string) string {
	return fmt.Sprintf("%s/api/v1/files/%s/download", s.baseURL, fileID)
}

// GenerateSignedDownloadURL generates a signed download URL for sharing
// with the browser. The token expires in 1 hour.
func (s *FileService) GenerateSignedDownloadURL(fileID, userID string) (string, error) {
	// Verify file exists
	file, err := s.fileRepo.GetByID(fileID)
	if err != nil {
		return "", fmt.Errorf("file not found: %w", err)
	}

	token, err := s.authService.SignDownloadToken(userID, file.ID, time.Hour)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return fmt.Sprintf("%s/api/v1/files/%s/download?token=%s", s.baseURL, fileID, token), nil
}

// GetCampaignFiles retrieves a campaign's files of one kind
func (s *FileService) GetCampaignFiles(campaignID, kind string) ([]*models.File, error) {
	return s.fileRepo.GetByCampaignAndKind(campaignID, kind)
}

// GetUserFiles retrieves all files for a user
func (s *FileService) GetUserFiles(userID string) ([]*models.File, error) {
	return s.fileRepo.GetByUserID(userID)
}

// FileToResponse converts File model to FileResponse
func (s *FileService) FileToResponse(file *models.File) models.FileResponse {
	campaignID := ""
	if file.CampaignID != nil {
		campaignID = *file.CampaignID
	}
	return models.FileResponse{
		ID:           file.ID,
		UserID:       file.UserID,
		CampaignID:   campaignID,
		Kind:         file.Kind,
		FileName:     file.FileName,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		FileSize:     file.FileSize,
		DownloadURL:  s.GetDownloadURL(file.ID),
		CreatedAt:    file.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    file.UpdatedAt.Format(time.RFC3339),
	}
}
