package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHTML_TextFragment(t *testing.T) {
	doc := NewDocument([]Element{{
		ID: 1, Kind: KindText, X: 10, Y: 10, Text: "Hi", FontSize: 20, Fill: "black",
		Animation: DefaultAnimation(),
	}}, nil)

	out := ExportHTML(doc, testBanner)
	assert.Contains(t, out, `class="element" style="left: 10px; top: 10px; font-size: 20px; color: black;`)
	assert.Contains(t, out, `>Hi</div>`)
	assert.NotContains(t, out, "animation-name")
	assert.NotContains(t, out, "@keyframes")
	assert.Contains(t, out, "#banner { position: relative; width: 600px; height: 400px;")
}

func TestExportHTML_Deterministic(t *testing.T) {
	doc := NewDocument([]Element{
		{ID: 1, Kind: KindRect, X: 1, Y: 2, Width: 3, Height: 4, Fill: "red", Animation: Animation{Kind: AnimBounce, Duration: 1, Iterations: IterationCount{N: 2}}},
		{ID: 2, Kind: KindText, X: 1, Y: 2, Text: "x", FontSize: 9, Fill: "blue", Animation: Animation{Kind: AnimFadeIn, Duration: 1, Iterations: IterationCount{N: 1}}},
	}, nil)
	assert.Equal(t, ExportHTML(doc, testBanner), ExportHTML(doc.Clone(), testBanner))
}

func TestExportHTML_Animation(t *testing.T) {
	doc := NewDocument([]Element{{
		ID: 1, Kind: KindRect, X: 0, Y: 0, Width: 10, Height: 10, Fill: "red",
		Animation: Animation{Kind: AnimFadeIn, Duration: 1.5, Delay: 0.25, Iterations: IterationCount{Infinite: true}},
	}}, nil)

	out := ExportHTML(doc, testBanner)
	assert.Contains(t, out, `class="element fadeIn"`)
	assert.Contains(t, out, "animation-duration: 1.5s; animation-delay: 0.25s; animation-iteration-count: infinite;")
	assert.Contains(t, out, ".fadeIn { animation-name: fadeIn;")
	assert.Contains(t, out, "@keyframes fadeIn")
	assert.NotContains(t, out, "@keyframes bounce", "only used animations are emitted")
}

func TestExportHTML_Shapes(t *testing.T) {
	doc := NewDocument([]Element{
		{ID: 1, Kind: KindRect, X: 20, Y: 30, Width: 100, Height: 50, Fill: "blue", Stroke: "black"},
		{ID: 2, Kind: KindCircle, X: 100, Y: 100, Radius: 50, Fill: "red"},
		{ID: 3, Kind: KindPolygon, X: 100, Y: 100, Points: []float64{10, 20, 60, 20, 35, 70}, Closed: true, Fill: "green", Stroke: "black"},
		{ID: 4, Kind: KindPolygon, X: 0, Y: 0, Points: []float64{0, 0, 10, 10, 20, 0}, Fill: "green", Stroke: "black"},
	}, nil)

	out := ExportHTML(doc, testBanner)
	assert.Contains(t, out, "left: 20px; top: 30px; width: 100px; height: 50px; background: blue; border: 1px solid black;")
	assert.Contains(t, out, "left: 50px; top: 50px; width: 100px; height: 100px; background: red; border: none; border-radius: 50%;")
	assert.Contains(t, out, `style="left: 110px; top: 120px; overflow: visible;" width="50" height="50"`)
	assert.Contains(t, out, `<polygon points="0,0 50,0 25,50" style="fill: green;`)
	assert.Contains(t, out, `<polyline points="0,0 10,10 20,0" style="fill: none;`)
}

func TestExportHTML_EscapesText(t *testing.T) {
	doc := NewDocument([]Element{{ID: 1, Kind: KindText, Text: `<b>"Sale"</b> & more`, FontSize: 12, Fill: "black"}}, nil)
	out := ExportHTML(doc, testBanner)
	assert.Contains(t, out, "&lt;b&gt;&#34;Sale&#34;&lt;/b&gt; &amp; more")
	assert.NotContains(t, out, "<b>")
}

func TestExportHTML_Image(t *testing.T) {
	bitmap := image.NewRGBA(image.Rect(0, 0, 2, 2))
	bitmap.Set(0, 0, color.RGBA{R: 255, A: 255})
	doc := NewDocument(nil, []ImageElement{{ID: 1, Bitmap: bitmap, Source: "dot.png", X: 5, Y: 6, Width: 20, Height: 20, Animation: DefaultAnimation()}})

	out := ExportHTML(doc, testBanner)
	assert.Contains(t, out, `src="data:image/png;base64,`)
	assert.Contains(t, out, "left: 5px; top: 6px; width: 20px; height: 20px;")

	doc.Images[0].Bitmap = nil
	assert.Contains(t, ExportHTML(doc, testBanner), `src="dot.png"`)
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), htmlExportName)
	doc := NewDocument([]Element{{ID: 1, Kind: KindText, Text: "Get Started", FontSize: 20, Fill: "black"}}, nil)
	require.NoError(t, writeHTML(path, doc, testBanner))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
	assert.Contains(t, string(data), "Get Started")
}
