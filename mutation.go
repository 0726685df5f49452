package main

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Transform is the outcome of a resize gesture: the node's final position and
// the scale the user dragged it to.
type Transform struct {
	X      float64
	Y      float64
	ScaleX float64
	ScaleY float64
}

// IdentityTransform moves to (x, y) without resizing.
func IdentityTransform(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

func notFound(id int64) error {
	return fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// AddElement appends a default element of the given kind.
func AddElement(doc Document, kind ElementKind, ids *IDSource) (Document, int64, error) {
	el, err := NewElement(kind, ids.Next())
	if err != nil {
		return doc, 0, err
	}
	next := doc.Clone()
	next.Elements = append(next.Elements, el)
	next.reindex()
	return next, el.ID, nil
}

// InsertElement appends caller-built geometry after validating it. The id is
// always assigned here.
func InsertElement(doc Document, el Element, ids *IDSource) (Document, int64, error) {
	if err := ValidateGeometry(el); err != nil {
		return doc, 0, err
	}
	el.ID = ids.Next()
	next := doc.Clone()
	next.Elements = append(next.Elements, cloneElements([]Element{el})...)
	next.reindex()
	return next, el.ID, nil
}

// AddImage appends a decoded bitmap at the default position, scaled down to
// fit the banner minus padding when it is too large.
func AddImage(doc Document, bitmap image.Image, source string, banner BannerConfig, ids *IDSource) (Document, int64, error) {
	if bitmap == nil {
		return doc, 0, fmt.Errorf("no bitmap: %w", ErrInvalidInput)
	}
	b := bitmap.Bounds()
	width, height := fitImage(float64(b.Dx()), float64(b.Dy()), banner)
	if err := validateImageSize(width, height); err != nil {
		return doc, 0, err
	}
	img := ImageElement{
		ID:        ids.Next(),
		Bitmap:    bitmap,
		Source:    source,
		X:         defaultX,
		Y:         defaultY,
		Width:     width,
		Height:    height,
		Animation: DefaultAnimation(),
	}
	next := doc.Clone()
	next.Images = append(next.Images, img)
	next.reindex()
	return next, img.ID, nil
}

func fitImage(width, height float64, banner BannerConfig) (float64, float64) {
	maxW := float64(banner.Width) - imagePadding
	maxH := float64(banner.Height) - imagePadding
	if width <= maxW && height <= maxH {
		return width, height
	}
	if maxW <= 0 || maxH <= 0 {
		return width, height
	}
	ratio := math.Min(maxW/width, maxH/height)
	return width * ratio, height * ratio
}

// MoveTo sets the position of an entry. Positions are not clamped to the
// banner; elements may sit partly or fully outside it.
func MoveTo(doc Document, id int64, x, y float64) (Document, error) {
	loc, ok := doc.locate(id)
	if !ok {
		return doc, notFound(id)
	}
	next := doc.Clone()
	if loc.image {
		next.Images[loc.pos].X, next.Images[loc.pos].Y = x, y
	} else {
		next.Elements[loc.pos].X, next.Elements[loc.pos].Y = x, y
	}
	return next, nil
}

// ApplyTransform folds a gesture's scale into the entry's size fields and
// takes the gesture's final position. Scale never survives as a field of its
// own. A resize that would leave a rect, circle, image or polygon smaller than
// minBoxSize in either dimension returns ErrDegenerateGeometry and the input
// document, position included. Text is resized through its font size only.
func ApplyTransform(doc Document, id int64, tr Transform) (Document, error) {
	loc, ok := doc.locate(id)
	if !ok {
		return doc, notFound(id)
	}
	next := doc.Clone()

	if loc.image {
		img := &next.Images[loc.pos]
		w := math.Abs(img.Width * tr.ScaleX)
		h := math.Abs(img.Height * tr.ScaleY)
		if err := checkBox(id, w, h); err != nil {
			return doc, err
		}
		img.Width, img.Height = w, h
		img.X, img.Y = tr.X, tr.Y
		return next, nil
	}

	el := &next.Elements[loc.pos]
	switch el.Kind {
	case KindText:
		el.FontSize = math.Max(1, math.Round(el.FontSize*tr.ScaleX))
	case KindRect:
		w := math.Abs(el.Width * tr.ScaleX)
		h := math.Abs(el.Height * tr.ScaleY)
		if err := checkBox(id, w, h); err != nil {
			return doc, err
		}
		el.Width, el.Height = w, h
	case KindCircle:
		// Uniform scaling; the vertical factor is ignored.
		r := math.Abs(el.Radius * tr.ScaleX)
		if err := checkBox(id, 2*r, 2*r); err != nil {
			return doc, err
		}
		el.Radius = r
	case KindPolygon:
		points := make([]float64, len(el.Points))
		for i, p := range el.Points {
			if i%2 == 0 {
				points[i] = p * tr.ScaleX
			} else {
				points[i] = p * tr.ScaleY
			}
		}
		minX, minY, maxX, maxY := pointBounds(points)
		if err := checkBox(id, maxX-minX, maxY-minY); err != nil {
			return doc, err
		}
		el.Points = points
	}
	el.X, el.Y = tr.X, tr.Y
	return next, nil
}

func checkBox(id int64, w, h float64) error {
	if w < minBoxSize || h < minBoxSize {
		return fmt.Errorf("id %d resized to %.1fx%.1f: %w", id, w, h, ErrDegenerateGeometry)
	}
	return nil
}

// SetProperty updates a single field from a control-panel value. Writing fill
// to an image is silently ignored since images have no fill.
func SetProperty(doc Document, id int64, key, value string) (Document, error) {
	loc, ok := doc.locate(id)
	if !ok {
		return doc, notFound(id)
	}
	next := doc.Clone()

	var anim *Animation
	if loc.image {
		img := &next.Images[loc.pos]
		switch key {
		case PropFill:
			return doc, nil
		case PropAnimKind, PropAnimDuration, PropAnimDelay, PropAnimIteration:
			anim = &img.Animation
		default:
			return doc, fmt.Errorf("image property %q: %w", key, ErrInvalidInput)
		}
	} else {
		el := &next.Elements[loc.pos]
		switch key {
		case PropFill:
			if strings.TrimSpace(value) == "" {
				return doc, fmt.Errorf("empty fill: %w", ErrInvalidInput)
			}
			el.Fill = value
			return next, nil
		case PropStroke:
			if el.Kind == KindText {
				return doc, fmt.Errorf("text has no stroke: %w", ErrInvalidInput)
			}
			el.Stroke = value
			return next, nil
		case PropFontSize:
			if el.Kind != KindText {
				return doc, fmt.Errorf("%s has no font size: %w", el.Kind, ErrInvalidInput)
			}
			size, err := strconv.ParseFloat(value, 64)
			if err != nil || size <= 0 {
				return doc, fmt.Errorf("font size %q: %w", value, ErrInvalidInput)
			}
			el.FontSize = size
			return next, nil
		case PropText:
			return Retext(doc, id, value)
		case PropAnimKind, PropAnimDuration, PropAnimDelay, PropAnimIteration:
			anim = &el.Animation
		default:
			return doc, fmt.Errorf("property %q: %w", key, ErrInvalidInput)
		}
	}

	if err := setAnimationField(anim, key, value); err != nil {
		return doc, err
	}
	return next, nil
}

func setAnimationField(anim *Animation, key, value string) error {
	switch key {
	case PropAnimKind:
		kind, ok := parseAnimationKind(value)
		if !ok {
			return fmt.Errorf("animation %q: %w", value, ErrInvalidInput)
		}
		anim.Kind = kind
	case PropAnimDuration:
		d, err := strconv.ParseFloat(value, 64)
		if err != nil || d <= 0 {
			return fmt.Errorf("duration %q: %w", value, ErrInvalidInput)
		}
		anim.Duration = d
	case PropAnimDelay:
		d, err := strconv.ParseFloat(value, 64)
		if err != nil || d < 0 {
			return fmt.Errorf("delay %q: %w", value, ErrInvalidInput)
		}
		anim.Delay = d
	case PropAnimIteration:
		n, err := parseIterationCount(value)
		if err != nil {
			return err
		}
		anim.Iterations = n
	}
	return nil
}

// Retext replaces the text of a text element. An empty or blank text means
// the edit was cancelled and is reported as ErrInvalidInput.
func Retext(doc Document, id int64, text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return doc, fmt.Errorf("empty text: %w", ErrInvalidInput)
	}
	loc, ok := doc.locate(id)
	if !ok {
		return doc, notFound(id)
	}
	if loc.image || doc.Elements[loc.pos].Kind != KindText {
		return doc, fmt.Errorf("id %d is not text: %w", id, ErrInvalidInput)
	}
	next := doc.Clone()
	next.Elements[loc.pos].Text = text
	return next, nil
}

// DeleteByID removes the entry from whichever collection holds it.
func DeleteByID(doc Document, id int64) (Document, error) {
	loc, ok := doc.locate(id)
	if !ok {
		return doc, notFound(id)
	}
	next := doc.Clone()
	if loc.image {
		next.Images = append(next.Images[:loc.pos], next.Images[loc.pos+1:]...)
	} else {
		next.Elements = append(next.Elements[:loc.pos], next.Elements[loc.pos+1:]...)
	}
	next.reindex()
	return next, nil
}
