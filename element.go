package main

import (
	"fmt"
	"image"
	"slices"
	"strconv"
)

// Element is a drawable item. Kind selects which of the size fields are
// meaningful: Text/FontSize for text, Width/Height for rect, Radius for
// circle, Points/Closed for polygon.
type Element struct {
	ID        int64
	Kind      ElementKind
	X         float64
	Y         float64
	Fill      string
	Stroke    string
	Animation Animation

	Text     string
	FontSize float64

	Width  float64
	Height float64

	Radius float64

	Points []float64
	Closed bool
}

// ImageElement is a raster image placed on the banner. The bitmap is owned by
// whoever decoded it and is shared, never copied, between snapshots.
type ImageElement struct {
	ID        int64
	Bitmap    image.Image
	Source    string
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Animation Animation
}

type IterationCount struct {
	N        int
	Infinite bool
}

func (c IterationCount) String() string {
	if c.Infinite {
		return "infinite"
	}
	return strconv.Itoa(c.N)
}

func parseIterationCount(s string) (IterationCount, error) {
	if s == "infinite" {
		return IterationCount{Infinite: true}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return IterationCount{}, fmt.Errorf("iteration count %q: %w", s, ErrInvalidInput)
	}
	return IterationCount{N: n}, nil
}

type Animation struct {
	Kind       AnimationKind
	Duration   float64 // seconds, > 0
	Delay      float64 // seconds, >= 0
	Iterations IterationCount
}

func DefaultAnimation() Animation {
	return Animation{Kind: AnimNone, Duration: 1, Delay: 0, Iterations: IterationCount{N: 1}}
}

// IDSource hands out ids for new elements and images. Ids only grow, so an
// entry brought back by undo never collides with one created later.
type IDSource struct {
	last int64
}

func NewIDSource(seed int64) *IDSource {
	return &IDSource{last: seed}
}

func (s *IDSource) Next() int64 {
	s.last++
	return s.last
}

type location struct {
	image bool
	pos   int
}

// Document is the whole composition at one point in time. Slice order is
// z-order; images are drawn above elements. Treat a Document as a value:
// the mutation functions return a fresh copy and never modify their input.
type Document struct {
	Elements []Element
	Images   []ImageElement

	index map[int64]location
}

func NewDocument(elements []Element, images []ImageElement) Document {
	d := Document{Elements: cloneElements(elements), Images: slices.Clone(images)}
	d.reindex()
	return d
}

func (d *Document) reindex() {
	d.index = make(map[int64]location, len(d.Elements)+len(d.Images))
	for i, el := range d.Elements {
		d.index[el.ID] = location{pos: i}
	}
	for i, img := range d.Images {
		d.index[img.ID] = location{image: true, pos: i}
	}
}

// Clone returns a deep copy. Bitmaps are shared.
func (d Document) Clone() Document {
	out := Document{Elements: cloneElements(d.Elements), Images: slices.Clone(d.Images)}
	out.reindex()
	return out
}

func cloneElements(elements []Element) []Element {
	out := slices.Clone(elements)
	for i := range out {
		out[i].Points = slices.Clone(out[i].Points)
	}
	return out
}

func (d Document) locate(id int64) (location, bool) {
	if d.index == nil {
		// Documents built by literal have no index yet.
		d.reindex()
	}
	loc, ok := d.index[id]
	return loc, ok
}

func (d Document) Element(id int64) (Element, bool) {
	loc, ok := d.locate(id)
	if !ok || loc.image {
		return Element{}, false
	}
	return d.Elements[loc.pos], true
}

func (d Document) Image(id int64) (ImageElement, bool) {
	loc, ok := d.locate(id)
	if !ok || !loc.image {
		return ImageElement{}, false
	}
	return d.Images[loc.pos], true
}

func (d Document) Has(id int64) bool {
	_, ok := d.locate(id)
	return ok
}

func (d Document) Len() int {
	return len(d.Elements) + len(d.Images)
}

// IDs lists every id in draw order.
func (d Document) IDs() []int64 {
	ids := make([]int64, 0, d.Len())
	for _, el := range d.Elements {
		ids = append(ids, el.ID)
	}
	for _, img := range d.Images {
		ids = append(ids, img.ID)
	}
	return ids
}

// NewElement builds an element of the given kind with the default geometry
// and style at the default position.
func NewElement(kind ElementKind, id int64) (Element, error) {
	el := Element{ID: id, Kind: kind, X: defaultX, Y: defaultY, Animation: DefaultAnimation()}
	switch kind {
	case KindText:
		el.Text = "New Text"
		el.FontSize = 20
		el.Fill = "black"
	case KindRect:
		el.Width = 100
		el.Height = 50
		el.Fill = "blue"
		el.Stroke = "black"
	case KindCircle:
		el.Radius = 50
		el.Fill = "red"
		el.Stroke = "black"
	case KindPolygon:
		el.Points = []float64{50, 0, 100, 100, 0, 100}
		el.Closed = true
		el.Fill = "green"
		el.Stroke = "black"
	default:
		return Element{}, fmt.Errorf("element kind %d: %w", kind, ErrInvalidInput)
	}
	return el, nil
}

// ValidateGeometry checks caller-supplied element geometry.
func ValidateGeometry(el Element) error {
	switch el.Kind {
	case KindText:
		if el.FontSize <= 0 {
			return fmt.Errorf("font size %v: %w", el.FontSize, ErrInvalidGeometry)
		}
	case KindRect:
		if el.Width <= 0 || el.Height <= 0 {
			return fmt.Errorf("rect %vx%v: %w", el.Width, el.Height, ErrInvalidGeometry)
		}
	case KindCircle:
		if el.Radius <= 0 {
			return fmt.Errorf("radius %v: %w", el.Radius, ErrInvalidGeometry)
		}
	case KindPolygon:
		if len(el.Points) < 6 || len(el.Points)%2 != 0 {
			return fmt.Errorf("polygon with %d coordinates: %w", len(el.Points), ErrInvalidGeometry)
		}
	default:
		return fmt.Errorf("element kind %d: %w", el.Kind, ErrInvalidGeometry)
	}
	return nil
}

func validateImageSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image %vx%v: %w", width, height, ErrInvalidGeometry)
	}
	return nil
}

// pointBounds returns the tight bounding box of a flat x/y point list.
func pointBounds(points []float64) (minX, minY, maxX, maxY float64) {
	if len(points) < 2 {
		return 0, 0, 0, 0
	}
	minX, maxX = points[0], points[0]
	minY, maxY = points[1], points[1]
	for i := 0; i+1 < len(points); i += 2 {
		minX = min(minX, points[i])
		maxX = max(maxX, points[i])
		minY = min(minY, points[i+1])
		maxY = max(maxY, points[i+1])
	}
	return minX, minY, maxX, maxY
}
