package qr_test

import (
	"image/color"
	"testing"

	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/qr"
)

func TestParseColor(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 255}

	tests := []struct {
		name  string
		input string
		want  color.RGBA
	}{
		{"hex with hash", "#ff0080", color.RGBA{255, 0, 128, 255}},
		{"hex without hash", "00ff00", color.RGBA{0, 255, 0, 255}},
		{"transparent", "transparent", color.RGBA{0, 0, 0, 0}},
		{"empty falls back", "", fallback},
		{"too short falls back", "fff", fallback},
		{"garbage falls back", "zzzzzz", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := qr.ParseColor(tt.input, fallback)
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDesignSpecDefaults(t *testing.T) {
	spec := qr.ParseDesignSpec(nil)

	if spec.ModuleShape != qr.ShapeSquare {
		t.Errorf("expected square module shape, got %q", spec.ModuleShape)
	}
	if spec.Frame != qr.FrameNone {
		t.Errorf("expected no frame, got %q", spec.Frame)
	}
	if len(spec.Fill) != 1 || spec.Fill[0] != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("expected single black fill, got %v", spec.Fill)
	}
	if spec.Background != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected white background, got %v", spec.Background)
	}
}

func TestParseDesignSpecGradient(t *testing.T) {
	design := models.JSON{
		"module_shape": "circle",
		"corner_style": "rounded",
		"gradient":     []interface{}{"#ff0000", "#00ff00", "#0000ff"},
		"corner_color": "#112233",
		"frame":        "rounded",
		"frame_text":   "SCAN ME",
		"logo_scale":   0.25,
		"watermark":    true,
	}

	spec := qr.ParseDesignSpec(design)

	if spec.ModuleShape != qr.ShapeCircle {
		t.Errorf("expected circle shape, got %q", spec.ModuleShape)
	}
	if spec.CornerStyle != qr.CornerRounded {
		t.Errorf("expected rounded corner style, got %q", spec.CornerStyle)
	}
	if len(spec.Fill) != 3 {
		t.Fatalf("expected 3 gradient stops, got %d", len(spec.Fill))
	}
	if spec.Fill[0] != (color.RGBA{255, 0, 0, 255}) || spec.Fill[2] != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("unexpected gradient stops: %v", spec.Fill)
	}
	if spec.CornerColor != (color.RGBA{0x11, 0x22, 0x33, 255}) {
		t.Errorf("unexpected corner color: %v", spec.CornerColor)
	}
	if spec.FrameText != "SCAN ME" {
		t.Errorf("unexpected frame text: %q", spec.FrameText)
	}
	if spec.LogoScale != 0.25 {
		t.Errorf("unexpected logo scale: %v", spec.LogoScale)
	}
	if !spec.Watermark {
		t.Error("expected watermark enabled")
	}
}

func TestParseDesignSpecSingleColor(t *testing.T) {
	spec := qr.ParseDesignSpec(models.JSON{"color": "#336699"})

	if len(spec.Fill) != 1 {
		t.Fatalf("expected a single fill stop, got %d", len(spec.Fill))
	}
	if spec.Fill[0] != (color.RGBA{0x33, 0x66, 0x99, 255}) {
		t.Errorf("unexpected fill: %v", spec.Fill[0])
	}
	// corner color defaults to the fill when not set
	if spec.CornerColor != spec.Fill[0] {
		t.Errorf("expected corner color to follow fill, got %v", spec.CornerColor)
	}
}

func TestClampLogoScale(t *testing.T) {
	if got := qr.ClampLogoScale(0.01); got != qr.MinLogoScale {
		t.Errorf("expected clamp up to %v, got %v", qr.MinLogoScale, got)
	}
	if got := qr.ClampLogoScale(0.9); got != qr.MaxLogoScale {
		t.Errorf("expected clamp down to %v, got %v", qr.MaxLogoScale, got)
	}
	if got := qr.ClampLogoScale(0.2); got != 0.2 {
		t.Errorf("expected 0.2 unchanged, got %v", got)
	}
}
