package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/thankiuday/Phygital-sub005/internal/utils"
)

// quietZoneModules is the light border around the symbol, in modules.
const quietZoneModules = 4

// finderModules is the edge length of a finder pattern, in modules.
const finderModules = 7

// Render encodes the URL into a QR symbol and rasterizes it with the given
// design at size x size pixels. Error correction is fixed at the highest
// level so a centered logo overlay cannot make the code unscannable.
func Render(rawURL string, spec DesignSpec, size int) (image.Image, error) {
	normalized, err := utils.NormalizeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid target url: %w", err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid output size %d", size)
	}
	if len(spec.Fill) == 0 {
		spec.Fill = DefaultDesignSpec().Fill
	}

	qrc, err := qrcode.NewWith(normalized, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest))
	if err != nil {
		return nil, fmt.Errorf("failed to encode url: %w", err)
	}

	dimension := qrc.Dimension()
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid QR matrix dimension %d", dimension)
	}

	moduleSize := size / (dimension + 2*quietZoneModules)
	if moduleSize < 2 {
		moduleSize = 2
	}
	if moduleSize > 255 {
		moduleSize = 255
	}

	opts := []standard.ImageOption{
		standard.WithQRWidth(uint8(moduleSize)),
		standard.WithBorderWidth(quietZoneModules * moduleSize),
		standard.WithBgColor(spec.Background),
		standard.WithCustomShape(newModuleShape(spec.ModuleShape, spec.CornerStyle)),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	}
	if len(spec.Fill) >= 2 {
		opts = append(opts, standard.WithFgGradient(buildGradient(spec.Fill)))
	} else {
		opts = append(opts, standard.WithFgColor(spec.Fill[0]))
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopWriteCloser{&buf}, opts...)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("failed to rasterize QR code: %w", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rasterized QR: %w", err)
	}

	rgba := toRGBA(img)
	recolorFinders(rgba, spec, dimension, moduleSize)

	if spec.Logo != nil {
		overlayLogo(rgba, spec.Logo, ClampLogoScale(spec.LogoScale), spec.Background)
	}

	return scaleToSize(rgba, size), nil
}

// RenderPNG is Render with the result encoded as PNG bytes.
func RenderPNG(rawURL string, spec DesignSpec, size int) ([]byte, error) {
	img, err := Render(rawURL, spec, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// buildGradient turns two or three stops into a 45 degree linear gradient.
func buildGradient(stops []color.RGBA) *standard.LinearGradient {
	colorStops := make([]standard.ColorStop, len(stops))
	step := 1.0 / float64(len(stops)-1)
	for i, c := range stops {
		colorStops[i] = standard.ColorStop{T: float64(i) * step, Color: c}
	}
	return standard.NewGradient(45, colorStops...)
}

// recolorFinders repaints the three finder patterns in the corner color.
// The writer draws them with the body fill; the pass walks the three known
// 7x7 module regions and replaces every non-background pixel.
func recolorFinders(img *image.RGBA, spec DesignSpec, dimension, moduleSize int) {
	corner := spec.CornerColor
	if corner.A == 0 {
		return
	}

	border := quietZoneModules * moduleSize
	edge := finderModules * moduleSize
	far := border + (dimension-finderModules)*moduleSize

	regions := []image.Rectangle{
		image.Rect(border, border, border+edge, border+edge), // top-left
		image.Rect(far, border, far+edge, border+edge),       // top-right
		image.Rect(border, far, border+edge, far+edge),       // bottom-left
	}

	bg := spec.Background
	for _, region := range regions {
		for y := region.Min.Y; y < region.Max.Y; y++ {
			for x := region.Min.X; x < region.Max.X; x++ {
				r, g, b, a := img.At(x, y).RGBA()
				if a == 0 {
					continue
				}
				r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
				if r8 == bg.R && g8 == bg.G && b8 == bg.B {
					continue
				}
				img.Set(x, y, corner)
			}
		}
	}
}

// overlayLogo draws an opaque patch in the background color, sized to the
// logo plus 10% padding, then the logo itself centered on the symbol.
func overlayLogo(img *image.RGBA, logo image.Image, scale float64, bg color.RGBA) {
	bounds := img.Bounds()
	qrWidth := bounds.Dx()

	logoSize := int(float64(qrWidth) * scale)
	if logoSize < 1 {
		return
	}
	patchSize := logoSize + logoSize/10

	cx, cy := bounds.Min.X+qrWidth/2, bounds.Min.Y+bounds.Dy()/2
	patch := image.Rect(cx-patchSize/2, cy-patchSize/2, cx+patchSize/2, cy+patchSize/2)

	patchColor := bg
	if patchColor.A == 0 {
		patchColor = color.RGBA{255, 255, 255, 255}
	}
	draw.Draw(img, patch, &image.Uniform{C: patchColor}, image.Point{}, draw.Src)

	scaled := scaleToSize(toRGBA(logo), logoSize)
	logoRect := image.Rect(cx-logoSize/2, cy-logoSize/2, cx+logoSize/2, cy+logoSize/2)
	draw.Draw(img, logoRect, scaled, scaled.Bounds().Min, draw.Over)
}

// scaleToSize scales a square image to target x target using nearest
// neighbor, which keeps module edges sharp.
func scaleToSize(img *image.RGBA, target int) *image.RGBA {
	bounds := img.Bounds()
	current := bounds.Dx()
	if current == target || current == 0 || target <= 0 {
		return img
	}

	scale := float64(target) / float64(current)
	dst := image.NewRGBA(image.Rect(0, 0, target, target))
	for y := 0; y < target; y++ {
		for x := 0; x < target; x++ {
			ox := int(float64(x) / scale)
			oy := int(float64(y) / scale)
			if ox >= bounds.Dx() {
				ox = bounds.Dx() - 1
			}
			if oy >= bounds.Dy() {
				oy = bounds.Dy() - 1
			}
			dst.Set(x, y, img.At(bounds.Min.X+ox, bounds.Min.Y+oy))
		}
	}
	return dst
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
