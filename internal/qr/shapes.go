package qr

import (
	"github.com/yeqown/go-qrcode/writer/standard"
)

// moduleShape implements standard.IShape with independent draw functions
// for body modules and finder-pattern modules, so corner styling never
// depends on the body shape.
type moduleShape struct {
	draw       func(ctx *standard.DrawContext)
	drawFinder func(ctx *standard.DrawContext)
}

func (s *moduleShape) Draw(ctx *standard.DrawContext)       { s.draw(ctx) }
func (s *moduleShape) DrawFinder(ctx *standard.DrawContext) { s.drawFinder(ctx) }

// newModuleShape picks draw functions for the configured body shape and
// corner style.
func newModuleShape(bodyShape, cornerStyle string) *moduleShape {
	s := &moduleShape{draw: squareBlock, drawFinder: squareBlock}

	switch bodyShape {
	case ShapeRounded:
		s.draw = roundedBlock
	case ShapeCircle:
		s.draw = circleBlock
	case ShapeDiamond:
		s.draw = diamondBlock
	case ShapeHeart:
		s.draw = heartBlock
	}

	switch cornerStyle {
	case CornerRounded:
		s.drawFinder = roundedBlock
	case CornerDot:
		s.drawFinder = circleBlock
	}

	return s
}

func squareBlock(ctx *standard.DrawContext) {
	x, y := ctx.UpperLeft()
	w, h := ctx.Edge()
	ctx.DrawRectangle(x, y, float64(w), float64(h))
	ctx.SetColor(ctx.Color())
	ctx.Fill()
}

func roundedBlock(ctx *standard.DrawContext) {
	x, y := ctx.UpperLeft()
	w, h := ctx.Edge()
	radius := float64(w) * 0.3
	ctx.DrawRoundedRectangle(x, y, float64(w), float64(h), radius)
	ctx.SetColor(ctx.Color())
	ctx.Fill()
}

func circleBlock(ctx *standard.DrawContext) {
	x, y := ctx.UpperLeft()
	w, h := ctx.Edge()
	cx := x + float64(w)/2.0
	cy := y + float64(h)/2.0
	// slight shrink keeps adjacent circles visually separated
	ctx.DrawCircle(cx, cy, float64(w)/2.0*0.95)
	ctx.SetColor(ctx.Color())
	ctx.Fill()
}

func diamondBlock(ctx *standard.DrawContext) {
	x, y := ctx.UpperLeft()
	w, h := ctx.Edge()
	fw, fh := float64(w), float64(h)

	ctx.MoveTo(x+fw/2, y)
	ctx.LineTo(x+fw, y+fh/2)
	ctx.LineTo(x+fw/2, y+fh)
	ctx.LineTo(x, y+fh/2)
	ctx.ClosePath()
	ctx.SetColor(ctx.Color())
	ctx.Fill()
}

func heartBlock(ctx *standard.DrawContext) {
	x, y := ctx.UpperLeft()
	w, h := ctx.Edge()
	fw, fh := float64(w), float64(h)

	ctx.SetColor(ctx.Color())

	// two lobes plus a lower triangle
	r := fw * 0.24
	ctx.DrawCircle(x+fw*0.3, y+fh*0.34, r)
	ctx.Fill()
	ctx.DrawCircle(x+fw*0.7, y+fh*0.34, r)
	ctx.Fill()

	ctx.MoveTo(x+fw*0.08, y+fh*0.42)
	ctx.LineTo(x+fw*0.92, y+fh*0.42)
	ctx.LineTo(x+fw/2, y+fh*0.92)
	ctx.ClosePath()
	ctx.Fill()
}
