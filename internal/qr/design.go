package qr

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/thankiuday/Phygital-sub005/internal/models"
)

// Module shapes for the QR body
const (
	ShapeSquare  = "square"
	ShapeRounded = "rounded"
	ShapeCircle  = "circle"
	ShapeDiamond = "diamond"
	ShapeHeart   = "heart"
)

// Finder corner styles, applied independently of the body shape
const (
	CornerSquare  = "square"
	CornerRounded = "rounded"
	CornerDot     = "dot"
)

// Frame styles for the compositor
const (
	FrameNone    = "none"
	FrameSimple  = "simple"
	FrameRounded = "rounded"
	FrameDashed  = "dashed"
	FrameDotted  = "dotted"
	FrameDouble  = "double"
)

// Logo size limits as a fraction of the QR width. Below the minimum a logo
// is not distinguishable; above the maximum the overlay eats more of the
// symbol than the error correction level can absorb.
const (
	MinLogoScale = 0.10
	MaxLogoScale = 0.30
)

// DesignSpec describes the visual treatment of a rendered QR code. It is a
// pure value object: the renderer never mutates it and it has no identity
// of its own.
type DesignSpec struct {
	ModuleShape string
	CornerStyle string

	// Fill is one to three color stops. A single stop renders solid, two
	// or three render a 45 degree linear gradient.
	Fill []color.RGBA

	// CornerColor styles the three finder patterns. Zero value falls back
	// to the first fill stop.
	CornerColor color.RGBA

	Background color.RGBA

	Frame          string
	FrameColor     color.RGBA
	FrameText      string
	FrameTextColor color.RGBA

	// Logo, when non-nil, is drawn over the symbol center on an opaque
	// patch of the background color. LogoScale is the logo width as a
	// fraction of the QR width, clamped to [MinLogoScale, MaxLogoScale]
	// by the renderer.
	Logo      image.Image
	LogoScale float64

	Watermark bool
}

// DefaultDesignSpec returns a plain black-on-white square design.
func DefaultDesignSpec() DesignSpec {
	return DesignSpec{
		ModuleShape: ShapeSquare,
		CornerStyle: CornerSquare,
		Fill:        []color.RGBA{{0, 0, 0, 255}},
		Background:  color.RGBA{255, 255, 255, 255},
		Frame:       FrameNone,
		LogoScale:   0.20,
	}
}

// ParseDesignSpec builds a DesignSpec from a campaign's stored QR design
// payload. Unknown or missing fields fall back to the defaults, so a
// campaign created before a design option existed still renders.
func ParseDesignSpec(design models.JSON) DesignSpec {
	spec := DefaultDesignSpec()
	if design == nil {
		return spec
	}

	if v := jsonString(design, "module_shape"); v != "" {
		spec.ModuleShape = v
	}
	if v := jsonString(design, "corner_style"); v != "" {
		spec.CornerStyle = v
	}
	if v := jsonString(design, "frame"); v != "" {
		spec.Frame = v
	}
	spec.FrameText = jsonString(design, "frame_text")

	if stops := parseGradient(design); len(stops) > 0 {
		spec.Fill = stops
	}
	spec.CornerColor = ParseColor(jsonString(design, "corner_color"), spec.Fill[0])
	spec.Background = ParseColor(jsonString(design, "background"), spec.Background)
	spec.FrameColor = ParseColor(jsonString(design, "frame_color"), spec.Fill[0])
	spec.FrameTextColor = ParseColor(jsonString(design, "frame_text_color"), spec.Fill[0])

	if v, ok := design["logo_scale"].(float64); ok && v > 0 {
		spec.LogoScale = v
	}
	if v, ok := design["watermark"].(bool); ok {
		spec.Watermark = v
	}

	return spec
}

// parseGradient reads either a single "color" or a "gradient" list of two
// or three hex stops. Both forms are handled uniformly downstream.
func parseGradient(design models.JSON) []color.RGBA {
	if raw, ok := design["gradient"].([]interface{}); ok && len(raw) >= 2 {
		stops := make([]color.RGBA, 0, 3)
		for i, v := range raw {
			if i == 3 {
				break
			}
			if s, ok := v.(string); ok {
				stops = append(stops, ParseColor(s, color.RGBA{0, 0, 0, 255}))
			}
		}
		if len(stops) >= 2 {
			return stops
		}
	}
	if v := jsonString(design, "color"); v != "" {
		return []color.RGBA{ParseColor(v, color.RGBA{0, 0, 0, 255})}
	}
	return nil
}

func jsonString(j models.JSON, key string) string {
	if v, ok := j[key].(string); ok {
		return v
	}
	return ""
}

// ParseColor parses a hex color like "#1a2b3c". "transparent" yields a
// fully transparent color; anything unparsable yields the default.
func ParseColor(param string, defaultColor color.RGBA) color.RGBA {
	if param == "" {
		return defaultColor
	}
	if strings.ToLower(param) == "transparent" {
		return color.RGBA{0, 0, 0, 0}
	}

	param = strings.TrimPrefix(param, "#")
	if len(param) != 6 {
		return defaultColor
	}

	r, err1 := strconv.ParseUint(param[0:2], 16, 8)
	g, err2 := strconv.ParseUint(param[2:4], 16, 8)
	b, err3 := strconv.ParseUint(param[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return defaultColor
	}

	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}

// ClampLogoScale clamps a requested logo fraction into the scannable range.
func ClampLogoScale(scale float64) float64 {
	if scale < MinLogoScale {
		return MinLogoScale
	}
	if scale > MaxLogoScale {
		return MaxLogoScale
	}
	return scale
}
