package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Rasterizer draws documents into bitmaps: the PNG export and animation
// preview frames.
type Rasterizer struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

func NewRasterizer() (*Rasterizer, error) {
	ttfFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return &Rasterizer{font: ttfFont, faces: make(map[float64]font.Face)}, nil
}

func (r *Rasterizer) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

// Snapshot renders the document at rest.
func (r *Rasterizer) Snapshot(doc Document, banner BannerConfig) image.Image {
	return r.Frame(doc, banner, -1)
}

// Frame renders the document t seconds into its entrance animations.
func (r *Rasterizer) Frame(doc Document, banner BannerConfig, t float64) image.Image {
	dc := gg.NewContext(banner.Width, banner.Height)
	dc.SetColor(color.White)
	dc.Clear()

	for _, el := range doc.Elements {
		f := sampleAnimation(el.Animation, t, banner)
		r.drawElement(dc, el, f)
	}
	for _, img := range doc.Images {
		f := sampleAnimation(img.Animation, t, banner)
		r.drawImage(dc, img, f)
	}
	return dc.Image()
}

func (r *Rasterizer) WritePNG(w io.Writer, doc Document, banner BannerConfig) error {
	dc := gg.NewContextForImage(r.Snapshot(doc, banner))
	return dc.EncodePNG(w)
}

func (r *Rasterizer) SavePNG(filename string, doc Document, banner BannerConfig) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := r.WritePNG(f, doc, banner); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// elementCenter is the point zoom animations scale around.
func elementCenter(el Element) (float64, float64) {
	switch el.Kind {
	case KindRect:
		return el.X + el.Width/2, el.Y + el.Height/2
	case KindPolygon:
		minX, minY, maxX, maxY := pointBounds(el.Points)
		return el.X + (minX+maxX)/2, el.Y + (minY+maxY)/2
	}
	return el.X, el.Y
}

func (r *Rasterizer) drawElement(dc *gg.Context, el Element, f frame) {
	if f.Alpha <= 0 {
		return
	}
	fill, hasFill := parseColor(el.Fill)
	stroke, hasStroke := parseColor(el.Stroke)

	dc.Push()
	defer dc.Pop()
	dc.Translate(f.DX, f.DY)
	if f.Scale != 1 {
		cx, cy := elementCenter(el)
		dc.ScaleAbout(f.Scale, f.Scale, cx, cy)
	}
	dc.SetLineWidth(1.0)

	switch el.Kind {
	case KindText:
		if !hasFill {
			fill = color.RGBA{A: 255}
		}
		dc.SetFontFace(r.face(el.FontSize))
		dc.SetColor(withAlpha(fill, f.Alpha))
		for i, line := range strings.Split(el.Text, "\n") {
			dc.DrawStringAnchored(line, el.X, el.Y+float64(i)*el.FontSize, 0, 1)
		}
		return
	case KindRect:
		dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
	case KindCircle:
		dc.DrawCircle(el.X, el.Y, el.Radius)
	case KindPolygon:
		for i := 0; i+1 < len(el.Points); i += 2 {
			x, y := el.X+el.Points[i], el.Y+el.Points[i+1]
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		if !el.Closed {
			// An open polyline is only stroked.
			hasFill = false
		} else {
			dc.ClosePath()
		}
	}

	if hasFill {
		dc.SetColor(withAlpha(fill, f.Alpha))
		dc.FillPreserve()
	}
	if hasStroke {
		dc.SetColor(withAlpha(stroke, f.Alpha))
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func (r *Rasterizer) drawImage(dc *gg.Context, img ImageElement, f frame) {
	if img.Bitmap == nil || f.Alpha <= 0 {
		return
	}
	w := img.Width * f.Scale
	h := img.Height * f.Scale
	x := img.X + f.DX + (img.Width-w)/2
	y := img.Y + f.DY + (img.Height-h)/2
	rect := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
	if rect.Empty() {
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img.Bitmap, img.Bitmap.Bounds(), draw.Src, nil)

	dst, ok := dc.Image().(draw.Image)
	if !ok {
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(255 * min(1, f.Alpha))})
	draw.DrawMask(dst, rect, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}
