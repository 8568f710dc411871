package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/qr"
)

// DefaultPreviewDebounce is how long a rendered preview is reused for the
// same design. The editor re-requests the preview on every option change,
// most of which arrive in bursts.
const DefaultPreviewDebounce = 500 * time.Millisecond

// DefaultQRSize is the rendered edge length in pixels
const DefaultQRSize = 1024

type cachedPreview struct {
	hash       string
	data       []byte
	renderedAt time.Time
}

// QRService renders QR previews and final composite artifacts
type QRService struct {
	campaignRepo *repository.CampaignRepository
	fileService  *FileService
	baseURL      string
	debounce     time.Duration

	mu    sync.Mutex
	cache map[string]cachedPreview // campaign id -> last rendered preview
}

func NewQRService(campaignRepo *repository.CampaignRepository, fileService *FileService, baseURL string) *QRService {
	return &QRService{
		campaignRepo: campaignRepo,
		fileService:  fileService,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		debounce:     DefaultPreviewDebounce,
		cache:        make(map[string]cachedPreview),
	}
}

// SetDebounce overrides the preview reuse window
func (s *QRService) SetDebounce(d time.Duration) {
	s.debounce = d
}

// redirectURL is the stable scan URL the QR encodes
func (s *QRService) redirectURL(campaignID string) string {
	return s.baseURL + "/r/" + campaignID
}

// designHash fingerprints a design payload for the preview cache
func designHash(design models.JSON, size int) string {
	raw, err := json.Marshal(design)
	if err != nil {
		raw = []byte{}
	}
	sum := sha256.Sum256(append(raw, byte(size), byte(size>>8)))
	return hex.EncodeToString(sum[:])
}

// RenderPreview renders a campaign's QR code as PNG with the given design
// applied. Identical requests within the debounce window reuse the last
// rendered image.
func (s *QRService) RenderPreview(userID, campaignID string, design models.JSON, size int) ([]byte, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}
	if design == nil {
		design = campaign.QRDesign
	}
	if size <= 0 {
		size = DefaultQRSize
	}

	hash := designHash(design, size)
	s.mu.Lock()
	if cached, ok := s.cache[campaignID]; ok && cached.hash == hash && time.Since(cached.renderedAt) < s.debounce {
		data := cached.data
		s.mu.Unlock()
		return data, nil
	}
	s.mu.Unlock()

	data, err := s.render(campaign, design, size)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[campaignID] = cachedPreview{hash: hash, data: data, renderedAt: time.Now()}
	s.mu.Unlock()
	return data, nil
}

// render produces the framed QR PNG for a campaign
func (s *QRService) render(campaign *models.Campaign, design models.JSON, size int) ([]byte, error) {
	spec := qr.ParseDesignSpec(design)

	if campaign.LogoFileID != nil {
		logo, err := s.loadLogo(campaign.UserID, *campaign.LogoFileID)
		if err != nil {
			logrus.Warnf("Failed to load logo for campaign %s: %v", campaign.ID, err)
		} else {
			spec.Logo = logo
		}
	}

	img, err := qr.Render(s.redirectURL(campaign.ID), spec, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	framed := qr.ComposeFrame(img, spec)
	return qr.EncodePNG(framed)
}

func (s *QRService) loadLogo(userID, fileID string) (image.Image, error) {
	file, data, err := s.fileService.ReadFile(fileID, userID)
	if err != nil {
		return nil, err
	}
	return qr.DecodeLogo(data, file.MimeType)
}

// GenerateArtifact composes the campaign's QR code onto its uploaded
// design image at the stored placement and persists the result as the
// campaign's artifact file.
func (s *QRService) GenerateArtifact(userID, campaignID string) (*models.File, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}
	if campaign.DesignFileID == nil {
		return nil, errors.New("campaign has no design image")
	}

	_, designData, err := s.fileService.ReadFile(*campaign.DesignFileID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read design image: %w", err)
	}
	designImg, _, err := image.Decode(bytes.NewReader(designData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode design image: %w", err)
	}

	spec := qr.ParseDesignSpec(campaign.QRDesign)
	if campaign.LogoFileID != nil {
		logo, err := s.loadLogo(userID, *campaign.LogoFileID)
		if err != nil {
			logrus.Warnf("Failed to load logo for campaign %s: %v", campaign.ID, err)
		} else {
			spec.Logo = logo
		}
	}

	qrImg, err := qr.Render(s.redirectURL(campaign.ID), spec, DefaultQRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	composed := qr.ComposeDesign(designImg, qrImg,
		campaign.QRPositionX, campaign.QRPositionY, campaign.QRScale, campaign.QRRotation)

	data, err := qr.EncodeJPEG(composed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode artifact: %w", err)
	}

	file, err := s.fileService.SaveGenerated(userID, campaignID, models.FileKindArtifact, ".jpg", "image/jpeg", data)
	if err != nil {
		return nil, fmt.Errorf("failed to save artifact: %w", err)
	}

	if err := s.campaignRepo.UpdateFields(campaignID, map[string]interface{}{"artifact_file_id": file.ID}); err != nil {
		return nil, fmt.Errorf("failed to link artifact to campaign: %w", err)
	}

	return file, nil
}
