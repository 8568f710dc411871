package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"

	"github.com/fogleman/gg"
)

// watermarkText is the fixed brand mark drawn in the bottom-right corner
// when the design enables it.
const watermarkText = "phygital"

// ComposeFrame surrounds a rendered QR code with the configured decorative
// frame, draws the frame text (if any) in its text color, and finally the
// brand watermark over everything else.
func ComposeFrame(qrImg image.Image, spec DesignSpec) image.Image {
	if spec.Frame == "" || spec.Frame == FrameNone {
		if spec.Watermark {
			return drawWatermark(qrImg, spec)
		}
		return qrImg
	}

	qrSize := qrImg.Bounds().Dx()
	pad := qrSize * 4 / 100
	band := qrSize * 6 / 100
	if band < 4 {
		band = 4
	}

	labelBand := 0
	if spec.FrameText != "" {
		labelBand = qrSize * 16 / 100
	}

	width := qrSize + 2*(pad+band)
	height := width + labelBand

	dc := gg.NewContext(width, height)
	bg := spec.Background
	if bg.A == 0 {
		dc.SetRGBA(0, 0, 0, 0)
	} else {
		dc.SetColor(bg)
	}
	dc.Clear()

	drawFrameBorder(dc, spec, width, height, band)

	dc.DrawImage(qrImg, band+pad, band+pad)

	if spec.FrameText != "" {
		drawFrameLabel(dc, spec, width, height, band, labelBand)
	}

	out := dc.Image()
	if spec.Watermark {
		return drawWatermark(out, spec)
	}
	return out
}

// drawFrameBorder strokes the frame band in the selected style.
func drawFrameBorder(dc *gg.Context, spec DesignSpec, width, height, band int) {
	dc.SetColor(spec.FrameColor)
	half := float64(band) / 2

	switch spec.Frame {
	case FrameRounded:
		radius := float64(band) * 1.5
		dc.SetLineWidth(float64(band))
		dc.DrawRoundedRectangle(half, half, float64(width)-float64(band), float64(height)-float64(band), radius)
		dc.Stroke()
	case FrameDashed:
		dash := float64(band) * 2.5
		dc.SetDash(dash, dash/2)
		dc.SetLineWidth(float64(band))
		dc.DrawRectangle(half, half, float64(width)-float64(band), float64(height)-float64(band))
		dc.Stroke()
		dc.SetDash()
	case FrameDotted:
		spacing := float64(band) * 2
		r := float64(band) / 2
		for x := half; x <= float64(width)-half; x += spacing {
			dc.DrawCircle(x, half, r)
			dc.Fill()
			dc.DrawCircle(x, float64(height)-half, r)
			dc.Fill()
		}
		for y := half + spacing; y < float64(height)-half; y += spacing {
			dc.DrawCircle(half, y, r)
			dc.Fill()
			dc.DrawCircle(float64(width)-half, y, r)
			dc.Fill()
		}
	case FrameDouble:
		outer := float64(band) * 0.4
		inner := float64(band) * 0.3
		dc.SetLineWidth(outer)
		dc.DrawRectangle(outer/2, outer/2, float64(width)-outer, float64(height)-outer)
		dc.Stroke()
		dc.SetLineWidth(inner)
		offset := float64(band) - inner/2
		dc.DrawRectangle(offset, offset, float64(width)-2*offset, float64(height)-2*offset)
		dc.Stroke()
	default: // simple
		dc.SetLineWidth(float64(band))
		dc.DrawRectangle(half, half, float64(width)-float64(band), float64(height)-float64(band))
		dc.Stroke()
	}
}

// drawFrameLabel renders the frame text centered in the bottom band.
func drawFrameLabel(dc *gg.Context, spec DesignSpec, width, height, band, labelBand int) {
	// a real typeface when configured, the built-in bitmap face otherwise
	if fontPath := os.Getenv("FONT_PATH"); fontPath != "" {
		// bitmap fallback still renders the label
		_ = dc.LoadFontFace(fontPath, float64(labelBand)*0.5)
	}

	dc.SetColor(spec.FrameTextColor)
	cx := float64(width) / 2
	cy := float64(height) - float64(band) - float64(labelBand)/2
	dc.DrawStringAnchored(spec.FrameText, cx, cy, 0.5, 0.5)
}

// drawWatermark stamps the brand mark in the bottom-right corner, drawn
// last so it sits over the frame and QR alike.
func drawWatermark(img image.Image, spec DesignSpec) image.Image {
	dc := gg.NewContextForImage(img)
	w, h := dc.Width(), dc.Height()

	dc.SetColor(spec.FrameTextColor)
	dc.DrawStringAnchored(watermarkText, float64(w)-6, float64(h)-6, 1, 1)
	return dc.Image()
}

// ComposeDesign overlays a rendered QR code onto the uploaded design image
// at the stored placement. Scale is relative to the QR's rendered size and
// rotation is degrees clockwise about the QR center.
func ComposeDesign(design image.Image, qrImg image.Image, x, y, scale, rotation float64) image.Image {
	dc := gg.NewContextForImage(design)

	if scale <= 0 {
		scale = 1
	}
	qrW := float64(qrImg.Bounds().Dx()) * scale
	qrH := float64(qrImg.Bounds().Dy()) * scale

	cx := x + qrW/2
	cy := y + qrH/2

	dc.Push()
	if rotation != 0 {
		dc.RotateAbout(gg.Radians(rotation), cx, cy)
	}
	dc.ScaleAbout(scale, scale, cx, cy)
	dc.DrawImageAnchored(qrImg, int(math.Round(cx)), int(math.Round(cy)), 0.5, 0.5)
	dc.Pop()

	return dc.Image()
}

// EncodePNG encodes a composed image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes a composed image as JPEG bytes on an opaque white
// background, for download targets that do not handle transparency.
func EncodeJPEG(img image.Image) ([]byte, error) {
	rgba := toRGBA(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: 92}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
