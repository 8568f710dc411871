package qr_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/thankiuday/Phygital-sub005/internal/qr"
)

func TestRenderSize(t *testing.T) {
	img, err := qr.Render("https://example.com/r/abc", qr.DefaultDesignSpec(), 512)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 512 || bounds.Dy() != 512 {
		t.Errorf("expected 512x512 output, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	if _, err := qr.Render("", qr.DefaultDesignSpec(), 512); err == nil {
		t.Error("expected error for empty URL")
	}
	if _, err := qr.Render("ftp://example.com", qr.DefaultDesignSpec(), 512); err == nil {
		t.Error("expected error for non-http scheme")
	}
	if _, err := qr.Render("https://example.com", qr.DefaultDesignSpec(), 0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestRenderQuietZone(t *testing.T) {
	spec := qr.DefaultDesignSpec()
	img, err := qr.Render("https://example.com/r/abc", spec, 600)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// the outermost pixels sit inside the quiet zone and must be background
	bounds := img.Bounds()
	corners := []image.Point{
		{bounds.Min.X, bounds.Min.Y},
		{bounds.Max.X - 1, bounds.Min.Y},
		{bounds.Min.X, bounds.Max.Y - 1},
		{bounds.Max.X - 1, bounds.Max.Y - 1},
	}
	for _, p := range corners {
		r, g, b, _ := img.At(p.X, p.Y).RGBA()
		if uint8(r>>8) != 255 || uint8(g>>8) != 255 || uint8(b>>8) != 255 {
			t.Errorf("corner %v is not background: got rgb(%d,%d,%d)", p, r>>8, g>>8, b>>8)
		}
	}
}

func TestRenderFinderRecolor(t *testing.T) {
	spec := qr.DefaultDesignSpec()
	spec.CornerColor = color.RGBA{200, 30, 30, 255}

	img, err := qr.Render("https://example.com/r/abc", spec, 600)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// scan the upper-left quadrant for the finder color; the body stays black
	found := false
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Min.Y+bounds.Dy()/3 && !found; y++ {
		for x := bounds.Min.X; x < bounds.Min.X+bounds.Dx()/3; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if uint8(r>>8) == 200 && uint8(g>>8) == 30 && uint8(b>>8) == 30 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("finder color not present in top-left region")
	}
}

func TestRenderLogoPatch(t *testing.T) {
	logo := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			logo.Set(x, y, color.RGBA{0, 120, 240, 255})
		}
	}

	spec := qr.DefaultDesignSpec()
	spec.Logo = logo
	spec.LogoScale = 0.2

	img, err := qr.Render("https://example.com/r/abc", spec, 512)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// the exact center pixel belongs to the logo
	bounds := img.Bounds()
	cx := bounds.Min.X + bounds.Dx()/2
	cy := bounds.Min.Y + bounds.Dy()/2
	r, g, b, _ := img.At(cx, cy).RGBA()
	if uint8(r>>8) != 0 || uint8(g>>8) != 120 || uint8(b>>8) != 240 {
		t.Errorf("center pixel is not the logo color: got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestRenderModuleShapes(t *testing.T) {
	shapes := []string{qr.ShapeSquare, qr.ShapeRounded, qr.ShapeCircle, qr.ShapeDiamond, qr.ShapeHeart}
	corners := []string{qr.CornerSquare, qr.CornerRounded, qr.CornerDot}

	for _, shape := range shapes {
		for _, corner := range corners {
			spec := qr.DefaultDesignSpec()
			spec.ModuleShape = shape
			spec.CornerStyle = corner

			img, err := qr.Render("https://example.com/r/abc", spec, 400)
			if err != nil {
				t.Fatalf("Render(shape=%s, corner=%s) failed: %v", shape, corner, err)
			}
			if img.Bounds().Dx() != 400 {
				t.Errorf("Render(shape=%s, corner=%s): got width %d", shape, corner, img.Bounds().Dx())
			}

			// every shape must leave dark modules somewhere outside the quiet zone
			dark := 0
			bounds := img.Bounds()
			for y := bounds.Min.Y; y < bounds.Max.Y; y += 4 {
				for x := bounds.Min.X; x < bounds.Max.X; x += 4 {
					r, g, b, _ := img.At(x, y).RGBA()
					if r>>8 < 128 && g>>8 < 128 && b>>8 < 128 {
						dark++
					}
				}
			}
			if dark == 0 {
				t.Errorf("Render(shape=%s, corner=%s): no dark modules drawn", shape, corner)
			}
		}
	}
}

func TestRenderPNGEncodes(t *testing.T) {
	data, err := qr.RenderPNG("https://example.com/r/abc", qr.DefaultDesignSpec(), 256)
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	if len(data) < 8 {
		t.Fatal("PNG output too short")
	}
	// PNG magic bytes
	if data[0] != 0x89 || data[1] != 'P' || data[2] != 'N' || data[3] != 'G' {
		t.Error("output does not start with PNG signature")
	}
}

func TestComposeFrameGrowsCanvas(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 200, 200))
	spec := qr.DefaultDesignSpec()
	spec.Frame = qr.FrameSimple
	spec.FrameColor = color.RGBA{0, 0, 0, 255}

	out := qr.ComposeFrame(base, spec)
	if out.Bounds().Dx() <= 200 || out.Bounds().Dy() <= 200 {
		t.Errorf("expected framed output larger than input, got %v", out.Bounds())
	}
}

func TestComposeFrameLabelBand(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 200, 200))
	spec := qr.DefaultDesignSpec()
	spec.Frame = qr.FrameSimple
	spec.FrameColor = color.RGBA{0, 0, 0, 255}
	spec.FrameText = "SCAN ME"
	spec.FrameTextColor = color.RGBA{0, 0, 0, 255}

	plain := qr.ComposeFrame(base, qr.DesignSpec{Frame: qr.FrameSimple, FrameColor: color.RGBA{0, 0, 0, 255}, Background: color.RGBA{255, 255, 255, 255}})
	labeled := qr.ComposeFrame(base, spec)

	if labeled.Bounds().Dy() <= plain.Bounds().Dy() {
		t.Errorf("expected label band to add height: plain %d, labeled %d",
			plain.Bounds().Dy(), labeled.Bounds().Dy())
	}
}

func TestComposeFrameNoneIsPassthrough(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 100, 100))
	spec := qr.DefaultDesignSpec()

	out := qr.ComposeFrame(base, spec)
	if out != image.Image(base) {
		t.Error("expected unframed, unwatermarked compose to return the input image")
	}
}

func TestComposeDesignKeepsCanvas(t *testing.T) {
	design := image.NewRGBA(image.Rect(0, 0, 800, 600))
	code := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			code.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	out := qr.ComposeDesign(design, code, 100, 100, 1, 0)

	if out.Bounds().Dx() != 800 || out.Bounds().Dy() != 600 {
		t.Errorf("expected design canvas size preserved, got %v", out.Bounds())
	}
	// placement origin (100,100) with scale 1 puts the QR center at (200,200)
	r, _, _, _ := out.At(200, 200).RGBA()
	if uint8(r>>8) != 255 {
		t.Errorf("expected QR pixel at placement center, got r=%d", r>>8)
	}
}

func TestDecodeLogoRejectsEmpty(t *testing.T) {
	if _, err := qr.DecodeLogo(nil, "image/png"); err == nil {
		t.Error("expected error for empty logo data")
	}
}

func TestDecodeLogoSVG(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10" fill="#ff0000"/></svg>`)

	img, err := qr.DecodeLogo(svg, "image/svg+xml")
	if err != nil {
		t.Fatalf("DecodeLogo failed: %v", err)
	}
	if img.Bounds().Dx() == 0 {
		t.Error("expected non-empty rasterized SVG")
	}
}

func TestDecodeLogoPNG(t *testing.T) {
	data, err := qr.RenderPNG("https://example.com", qr.DefaultDesignSpec(), 64)
	if err != nil {
		t.Fatalf("setup render failed: %v", err)
	}

	img, err := qr.DecodeLogo(data, "image/png")
	if err != nil {
		t.Fatalf("DecodeLogo failed: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("expected 64px decoded logo, got %d", img.Bounds().Dx())
	}
}
