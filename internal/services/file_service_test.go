package services_test

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/thankiuday/Phygital-sub005/internal/services"
)

func newFileService(t *testing.T) *services.FileService {
	t.Helper()
	t.Setenv("FILE_STORAGE_DIR", t.TempDir())
	return services.NewFileService(nil, nil, "http://localhost:8080")
}

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{
		Filename: name,
		Header:   h,
		Size:     size,
	}
}

func TestValidateUploadAcceptsValidFiles(t *testing.T) {
	s := newFileService(t)

	tests := []struct {
		kind   string
		header *multipart.FileHeader
	}{
		{"design", header("flyer.jpg", "image/jpeg", 5<<20)},
		{"design", header("flyer.JPEG", "image/jpeg", 19<<20)},
		{"video", header("promo.mp4", "video/mp4", 40<<20)},
		{"document", header("menu.pdf", "application/pdf", 1<<20)},
		{"logo", header("logo.png", "image/png", 100<<10)},
		{"logo", header("logo.svg", "image/svg+xml", 50<<10)},
	}

	for _, tt := range tests {
		if err := s.ValidateUpload(tt.kind, tt.header); err != nil {
			t.Errorf("ValidateUpload(%s, %s) failed: %v", tt.kind, tt.header.Filename, err)
		}
	}
}

func TestValidateUploadRejectsOversizeDesign(t *testing.T) {
	s := newFileService(t)

	err := s.ValidateUpload("design", header("huge.jpg", "image/jpeg", 25<<20))
	if err == nil {
		t.Fatal("expected error for 25MB design upload")
	}
	if !strings.Contains(err.Error(), "20MB") {
		t.Errorf("size error should name the limit, got: %v", err)
	}
}

func TestValidateUploadRejectsWrongFormat(t *testing.T) {
	s := newFileService(t)

	tests := []struct {
		name   string
		kind   string
		header *multipart.FileHeader
	}{
		{"png design", "design", header("flyer.png", "image/png", 1 << 20)},
		{"avi video", "video", header("promo.avi", "video/x-msvideo", 1 << 20)},
		{"docx document", "document", header("menu.docx", "application/msword", 1 << 20)},
		{"jpeg logo", "logo", header("logo.jpg", "image/jpeg", 1 << 20)},
		{"mismatched mime", "design", header("flyer.jpg", "image/png", 1 << 20)},
	}

	for _, tt := range tests {
		if err := s.ValidateUpload(tt.kind, tt.header); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestValidateUploadRejectsUnknownKind(t *testing.T) {
	s := newFileService(t)

	if err := s.ValidateUpload("banner", header("a.jpg", "image/jpeg", 1<<20)); err == nil {
		t.Fatal("expected error for unknown file kind")
	}
}
