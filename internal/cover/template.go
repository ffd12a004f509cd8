// This file renders the template cover: a gradient background with a
// decorative border, a simple book glyph, and the title/author text drawn
// centered with embedded Go fonts. It is the path of last resort and must
// work for any title/author pair, including an empty author.

package cover

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Canonical cover dimensions and display limits.
const (
	CoverWidth  = 600
	CoverHeight = 900

	// MaxTitleChars is the longest title rendered before ellipsizing.
	MaxTitleChars = 40
	// MaxAuthorChars is the longest author rendered before ellipsizing.
	MaxAuthorChars = 30

	ellipsis = "..."

	footerText    = "libra library"
	unknownAuthor = "Unknown Author"
)

var (
	gradientTop    = color.RGBA{R: 38, G: 42, B: 96, A: 255}
	gradientBottom = color.RGBA{R: 104, G: 74, B: 150, A: 255}
	borderColor    = color.RGBA{R: 222, G: 204, B: 164, A: 255}
	textColor      = color.RGBA{R: 244, G: 240, B: 230, A: 255}
	glyphColor     = color.RGBA{R: 222, G: 204, B: 164, A: 255}
)

var (
	titleFace  font.Face
	authorFace font.Face
	footerFace font.Face
)

func init() {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		log.Fatalf("Failed to parse embedded bold font: %v", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("Failed to parse embedded regular font: %v", err)
	}

	titleFace = mustFace(bold, 42)
	authorFace = mustFace(regular, 26)
	footerFace = mustFace(regular, 16)
}

func mustFace(f *opentype.Font, size float64) font.Face {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Fatalf("Failed to create font face: %v", err)
	}
	return face
}

// Ellipsize truncates s to max characters followed by an ellipsis marker.
// Strings at or under the limit are returned unchanged.
func Ellipsize(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + ellipsis
}

// RenderTemplate draws the full template cover and returns it as an RGBA
// image of the canonical cover size.
func RenderTemplate(title, author string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, CoverWidth, CoverHeight))

	drawGradient(img)
	drawBorder(img, 16, 3)
	drawBorder(img, 26, 1)
	drawBookGlyph(img, CoverWidth/2, 200)

	if author == "" {
		author = unknownAuthor
	}

	title = Ellipsize(title, MaxTitleChars)
	author = Ellipsize(author, MaxAuthorChars)

	// Title, wrapped to at most three centered lines.
	lines := wrapText(titleFace, title, CoverWidth-120)
	if len(lines) > 3 {
		lines = lines[:3]
	}
	y := 400
	for _, line := range lines {
		drawCenteredText(img, titleFace, line, y)
		y += 56
	}

	drawCenteredText(img, authorFace, "by "+author, y+40)
	drawCenteredText(img, footerFace, footerText, CoverHeight-50)

	return img
}

// drawGradient fills the canvas with a vertical blend from gradientTop to
// gradientBottom.
func drawGradient(img *image.RGBA) {
	bounds := img.Bounds()
	height := bounds.Dy()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		t := float64(y) / float64(height-1)
		c := color.RGBA{
			R: lerp(gradientTop.R, gradientBottom.R, t),
			G: lerp(gradientTop.G, gradientBottom.G, t),
			B: lerp(gradientTop.B, gradientBottom.B, t),
			A: 255,
		}
		draw.Draw(img, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1),
			&image.Uniform{C: c}, image.Point{}, draw.Src)
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawBorder strokes a rectangle inset from the edges.
func drawBorder(img *image.RGBA, inset, thickness int) {
	bounds := img.Bounds()
	src := &image.Uniform{C: borderColor}
	x0, y0 := bounds.Min.X+inset, bounds.Min.Y+inset
	x1, y1 := bounds.Max.X-inset, bounds.Max.Y-inset

	draw.Draw(img, image.Rect(x0, y0, x1, y0+thickness), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(x0, y1-thickness, x1, y1), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(x0, y0, x0+thickness, y1), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(x1-thickness, y0, x1, y1), src, image.Point{}, draw.Src)
}

// drawBookGlyph draws a simple open-book shape centered at (cx, cy).
func drawBookGlyph(img *image.RGBA, cx, cy int) {
	src := &image.Uniform{C: glyphColor}

	// Two page blocks with a thin spine gap between them.
	pageW, pageH, gap := 52, 68, 6
	left := image.Rect(cx-pageW-gap/2, cy-pageH/2, cx-gap/2, cy+pageH/2)
	right := image.Rect(cx+gap/2, cy-pageH/2, cx+pageW+gap/2, cy+pageH/2)
	draw.Draw(img, left, src, image.Point{}, draw.Src)
	draw.Draw(img, right, src, image.Point{}, draw.Src)

	// Spine line below the pages.
	spine := image.Rect(cx-pageW-gap/2, cy+pageH/2+4, cx+pageW+gap/2, cy+pageH/2+8)
	draw.Draw(img, spine, src, image.Point{}, draw.Src)
}

// drawCenteredText draws one line of text horizontally centered with its
// baseline at y.
func drawCenteredText(img *image.RGBA, face font.Face, text string, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: textColor},
		Face: face,
	}
	width := d.MeasureString(text)
	x := (fixed.I(CoverWidth) - width) / 2
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(y)}
	d.DrawString(text)
}

// wrapText splits text into lines no wider than maxWidth pixels, breaking
// on word boundaries.
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	d := &font.Drawer{Face: face}
	limit := fixed.I(maxWidth)

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if d.MeasureString(candidate) > limit {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	lines = append(lines, current)
	return lines
}
