package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canvas is the terminal rendering surface. It keeps the last rendered
// document plus anything pushed since then (attribute edits, an in-progress
// gesture) and draws it into a grid of cells, one cell covering
// charWidth x charHeight banner pixels at zoom 1.
type Canvas struct {
	doc        Document
	banner     BannerConfig
	handles    int64
	hasHandles bool
	attrs      map[int64]map[string]string

	gestureID int64
	gesture   *Transform
}

type cell struct {
	r  rune
	fg string
}

// viewport maps banner pixels to terminal cells.
type viewport struct {
	zoom float64
	panX int
	panY int
}

func (v viewport) cellW() float64 { return charWidth / v.zoom }
func (v viewport) cellH() float64 { return charHeight / v.zoom }

func (v viewport) toCell(x, y float64) (int, int) {
	return int(math.Floor(x/v.cellW())) - v.panX, int(math.Floor(y/v.cellH())) - v.panY
}

// toBanner returns the banner point at the center of a cell.
func (v viewport) toBanner(col, row int) (float64, float64) {
	return (float64(col+v.panX) + 0.5) * v.cellW(), (float64(row+v.panY) + 0.5) * v.cellH()
}

func NewCanvas(banner BannerConfig) *Canvas {
	return &Canvas{
		doc:    NewDocument(nil, nil),
		banner: banner,
		attrs:  make(map[int64]map[string]string),
	}
}

func (c *Canvas) Render(doc Document) {
	c.doc = doc
	c.attrs = make(map[int64]map[string]string)
}

func (c *Canvas) AttachHandles(id int64) {
	c.handles = id
	c.hasHandles = true
}

func (c *Canvas) DetachHandles() {
	c.hasHandles = false
}

func (c *Canvas) SetBanner(banner BannerConfig) {
	c.banner = banner
}

// SetAttr patches one node until the next Render.
func (c *Canvas) SetAttr(id int64, key, value string) {
	if c.attrs[id] == nil {
		c.attrs[id] = make(map[string]string)
	}
	c.attrs[id][key] = value
}

// SetGesture previews a drag or resize of one node without touching the
// model; the editor only hears about it when the gesture ends.
func (c *Canvas) SetGesture(id int64, tr Transform) {
	c.gestureID = id
	c.gesture = &tr
}

func (c *Canvas) ClearGesture() {
	c.gesture = nil
}

// view is the document as it should appear right now.
func (c *Canvas) view() Document {
	doc := c.doc
	for id, attrs := range c.attrs {
		for key, value := range attrs {
			if next, err := SetProperty(doc, id, key, value); err == nil {
				doc = next
			}
		}
	}
	if c.gesture != nil {
		if next, err := ApplyTransform(doc, c.gestureID, *c.gesture); err == nil {
			doc = next
		}
	}
	return doc
}

func (c *Canvas) Draw(width, height int, vp viewport, cursorX, cursorY int, showCursor bool) []string {
	g := newCellGrid(width, height)

	c.drawFrame(g, vp)

	doc := c.view()
	for _, el := range doc.Elements {
		c.drawElement(g, el, vp)
	}
	for _, img := range doc.Images {
		c.drawImage(g, img, vp)
	}
	if c.hasHandles {
		if x0, y0, x1, y1, ok := entryBounds(doc, c.handles, vp); ok {
			c.drawHandles(g, x0, y0, x1, y1, vp)
		}
	}

	lines := make([]string, height)
	for y, row := range g.rows {
		lines[y] = renderRow(row, y, cursorX, cursorY, showCursor)
	}
	return lines
}

var cursorStyle = lipgloss.NewStyle().Reverse(true)

func renderRow(row []cell, y, cursorX, cursorY int, showCursor bool) string {
	var b strings.Builder
	var run strings.Builder
	runColor := ""
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runColor == "" {
			b.WriteString(run.String())
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
		}
		run.Reset()
	}
	for x, cl := range row {
		if showCursor && y == cursorY && x == cursorX {
			flush()
			b.WriteString(cursorStyle.Render(string(cl.r)))
			continue
		}
		if cl.fg != runColor {
			flush()
			runColor = cl.fg
		}
		run.WriteRune(cl.r)
	}
	flush()
	return b.String()
}

// cellGrid is the visible part of the canvas. Anything drawn outside it is
// dropped, and loops over an entry's extent are clipped to it first.
type cellGrid struct {
	rows          [][]cell
	width, height int
}

func newCellGrid(width, height int) *cellGrid {
	g := &cellGrid{rows: make([][]cell, height), width: width, height: height}
	for y := range g.rows {
		g.rows[y] = make([]cell, width)
		for x := range g.rows[y] {
			g.rows[y][x] = cell{r: ' '}
		}
	}
	return g
}

func (g *cellGrid) put(x, y int, r rune, fg string) {
	if y >= 0 && y < g.height && x >= 0 && x < g.width {
		g.rows[y][x] = cell{r: r, fg: fg}
	}
}

// clipCols narrows a column range to the visible columns.
func (g *cellGrid) clipCols(c0, c1 int) (int, int) {
	return max(c0, 0), min(c1, g.width-1)
}

func (g *cellGrid) clipRows(r0, r1 int) (int, int) {
	return max(r0, 0), min(r1, g.height-1)
}

const (
	frameColor  = "#666666"
	handleColor = "#ffaf00"
	imageColor  = "#8a8a8a"
)

func (c *Canvas) drawFrame(g *cellGrid, vp viewport) {
	x0, y0 := vp.toCell(0, 0)
	x1, y1 := vp.toCell(float64(c.banner.Width), float64(c.banner.Height))
	outline(g, x0, y0, x1, y1, '┄', '┆', frameColor)
	g.put(x0, y0, '┌', frameColor)
	g.put(x1, y0, '┐', frameColor)
	g.put(x0, y1, '└', frameColor)
	g.put(x1, y1, '┘', frameColor)
}

// outline draws the border of a cell rectangle, visiting visible cells only.
func outline(g *cellGrid, c0, r0, c1, r1 int, horizontal, vertical rune, fg string) {
	from, to := g.clipCols(c0, c1)
	for x := from; x <= to; x++ {
		g.put(x, r0, horizontal, fg)
		g.put(x, r1, horizontal, fg)
	}
	from, to = g.clipRows(r0, r1)
	for y := from; y <= to; y++ {
		g.put(c0, y, vertical, fg)
		g.put(c1, y, vertical, fg)
	}
}

func colorOf(s string) string {
	hex, ok := hexColor(s)
	if !ok {
		return ""
	}
	return hex
}

// fillCells paints every visible cell whose center satisfies inside.
func fillCells(g *cellGrid, vp viewport, x0, y0, x1, y1 float64, r rune, fg string, inside func(x, y float64) bool) {
	c0, r0 := vp.toCell(x0, y0)
	c1, r1 := vp.toCell(x1, y1)
	c0, c1 = g.clipCols(c0, c1)
	r0, r1 = g.clipRows(r0, r1)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			x, y := vp.toBanner(col, row)
			if inside(x, y) {
				g.put(col, row, r, fg)
			}
		}
	}
}

func (c *Canvas) drawElement(g *cellGrid, el Element, vp viewport) {
	fg := colorOf(el.Fill)
	switch el.Kind {
	case KindText:
		col, row := vp.toCell(el.X, el.Y)
		for i, line := range strings.Split(el.Text, "\n") {
			for j, r := range []rune(line) {
				g.put(col+j, row+i, r, fg)
			}
		}
	case KindRect:
		fillCells(g, vp, el.X, el.Y, el.X+el.Width, el.Y+el.Height, '█', fg, func(x, y float64) bool {
			return x >= el.X && x < el.X+el.Width && y >= el.Y && y < el.Y+el.Height
		})
	case KindCircle:
		fillCells(g, vp, el.X-el.Radius, el.Y-el.Radius, el.X+el.Radius, el.Y+el.Radius, '█', fg, func(x, y float64) bool {
			dx, dy := x-el.X, y-el.Y
			return dx*dx+dy*dy <= el.Radius*el.Radius
		})
	case KindPolygon:
		minX, minY, maxX, maxY := pointBounds(el.Points)
		r := '█'
		if !el.Closed {
			r = '░'
		}
		fillCells(g, vp, el.X+minX, el.Y+minY, el.X+maxX, el.Y+maxY, r, fg, func(x, y float64) bool {
			return pointInPolygon(el.Points, x-el.X, y-el.Y)
		})
	}
}

func (c *Canvas) drawImage(g *cellGrid, img ImageElement, vp viewport) {
	fillCells(g, vp, img.X, img.Y, img.X+img.Width, img.Y+img.Height, '▒', imageColor, func(x, y float64) bool {
		return x >= img.X && x < img.X+img.Width && y >= img.Y && y < img.Y+img.Height
	})
}

// drawHandles outlines the selected node with # like a box being moved.
func (c *Canvas) drawHandles(g *cellGrid, x0, y0, x1, y1 float64, vp viewport) {
	c0, r0 := vp.toCell(x0, y0)
	c1, r1 := vp.toCell(x1, y1)
	outline(g, c0-1, r0-1, c1+1, r1+1, '#', '#', handleColor)
}

// HitTest returns the topmost entry under a cell.
func (c *Canvas) HitTest(col, row int, vp viewport) (int64, bool) {
	doc := c.view()
	x, y := vp.toBanner(col, row)
	for i := len(doc.Images) - 1; i >= 0; i-- {
		img := doc.Images[i]
		if x >= img.X && x < img.X+img.Width && y >= img.Y && y < img.Y+img.Height {
			return img.ID, true
		}
	}
	for i := len(doc.Elements) - 1; i >= 0; i-- {
		el := doc.Elements[i]
		if elementContains(el, x, y, vp) {
			return el.ID, true
		}
	}
	return 0, false
}

func elementContains(el Element, x, y float64, vp viewport) bool {
	switch el.Kind {
	case KindText:
		x0, y0, x1, y1 := textBounds(el, vp)
		return x >= x0 && x < x1 && y >= y0 && y < y1
	case KindRect:
		return x >= el.X && x < el.X+el.Width && y >= el.Y && y < el.Y+el.Height
	case KindCircle:
		dx, dy := x-el.X, y-el.Y
		return dx*dx+dy*dy <= el.Radius*el.Radius
	case KindPolygon:
		return pointInPolygon(el.Points, x-el.X, y-el.Y)
	}
	return false
}

// textBounds measures text in cells, which is how the terminal draws it.
func textBounds(el Element, vp viewport) (x0, y0, x1, y1 float64) {
	lines := strings.Split(el.Text, "\n")
	longest := 0
	for _, line := range lines {
		longest = max(longest, len([]rune(line)))
	}
	return el.X, el.Y, el.X + float64(longest)*vp.cellW(), el.Y + float64(len(lines))*vp.cellH()
}

// entryBounds is the banner-space box of an entry.
func entryBounds(doc Document, id int64, vp viewport) (x0, y0, x1, y1 float64, ok bool) {
	if img, found := doc.Image(id); found {
		return img.X, img.Y, img.X + img.Width, img.Y + img.Height, true
	}
	el, found := doc.Element(id)
	if !found {
		return 0, 0, 0, 0, false
	}
	switch el.Kind {
	case KindText:
		x0, y0, x1, y1 = textBounds(el, vp)
	case KindRect:
		x0, y0, x1, y1 = el.X, el.Y, el.X+el.Width, el.Y+el.Height
	case KindCircle:
		x0, y0, x1, y1 = el.X-el.Radius, el.Y-el.Radius, el.X+el.Radius, el.Y+el.Radius
	case KindPolygon:
		minX, minY, maxX, maxY := pointBounds(el.Points)
		x0, y0, x1, y1 = el.X+minX, el.Y+minY, el.X+maxX, el.Y+maxY
	}
	return x0, y0, x1, y1, true
}

// pointInPolygon is the even-odd ray casting test over a flat point list.
func pointInPolygon(points []float64, x, y float64) bool {
	n := len(points) / 2
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := points[2*i], points[2*i+1]
		xj, yj := points[2*j], points[2*j+1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
