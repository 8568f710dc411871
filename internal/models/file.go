package models

import (
	"time"
)

// File kinds accepted by the upload API. Each kind carries its own
// type/size limits, enforced before anything touches disk.
const (
	FileKindDesign   = "design"   // campaign design image, single JPEG
	FileKindVideo    = "video"    // MP4, up to 5 per campaign
	FileKindDocument = "document" // PDF, up to 5 per campaign
	FileKindLogo     = "logo"     // QR center logo, PNG or SVG
	FileKindArtifact = "artifact" // generated composite design
)

// File represents an uploaded file
type File struct {
	// Primary key
	ID string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`

	// File info
	UserID       string  `json:"user_id" gorm:"not null;index;type:uuid"`
	CampaignID   *string `json:"campaign_id" gorm:"index;type:uuid"`
	Kind         string  `json:"kind" gorm:"type:varchar(20);not null;index"`
	FileName     string  `json:"file_name" gorm:"type:varchar(255);not null"`
	OriginalName string  `json:"original_name" gorm:"type:varchar(255);not null"`
	MimeType     string  `json:"mime_type" gorm:"type:varchar(100)"`
	FileSize     int64   `json:"file_size" gorm:"type:bigint"`                 // Size in bytes
	FilePath     string  `json:"file_path" gorm:"type:varchar(500);not null"` // Path on server storage

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the File model
func (File) TableName() string {
	return "files"
}

// FileResponse represents the response for file operations
type FileResponse struct {
	ID           string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID       string `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	CampaignID   string `json:"campaign_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440002"`
	Kind         string `json:"kind" example:"design"`
	FileName     string `json:"file_name" example:"abc123.jpg"`
	OriginalName string `json:"original_name" example:"flyer.jpg"`
	MimeType     string `json:"mime_type" example:"image/jpeg"`
	FileSize     int64  `json:"file_size" example:"1024"`
	DownloadURL  string `json:"download_url" example:"/api/v1/files/550e8400-e29b-41d4-a716-446655440000/download"`
	CreatedAt    string `json:"created_at" example:"2025-01-21T10:00:00Z"`
	UpdatedAt    string `json:"updated_at" example:"2025-01-21T10:00:00Z"`
}
