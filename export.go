package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image/png"
	"os"
	"strconv"
	"strings"
)

var keyframes = map[AnimationKind]string{
	AnimFadeIn:      "@keyframes fadeIn { from { opacity: 0; } to { opacity: 1; } }",
	AnimBounce:      "@keyframes bounce { 0%, 20%, 53%, 100% { transform: translateY(0); } 40%, 43% { transform: translateY(-30px); } 70% { transform: translateY(-15px); } 90% { transform: translateY(-4px); } }",
	AnimSlideInLeft: "@keyframes slideInLeft { from { transform: translateX(-100%); visibility: visible; } to { transform: translateX(0); } }",
	AnimZoomIn:      "@keyframes zoomIn { from { opacity: 0; transform: scale(0.3); } 50% { opacity: 1; } }",
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}

func attr(s string) string {
	return html.EscapeString(s)
}

// ExportHTML renders the document as a self-contained static page at the
// banner's pixel size. The output depends only on its inputs.
func ExportHTML(doc Document, banner BannerConfig) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("<title>Banner Design</title>\n")
	b.WriteString("<style>\n")
	b.WriteString("body { margin: 0; display: flex; justify-content: center; align-items: center; height: 100vh; background: #fff; }\n")
	fmt.Fprintf(&b, "#banner { position: relative; width: %dpx; height: %dpx; border: 1px solid #000; overflow: hidden; }\n", banner.Width, banner.Height)
	b.WriteString(".element { position: absolute; margin: 0; box-sizing: border-box; }\n")
	for _, kind := range usedAnimations(doc) {
		fmt.Fprintf(&b, ".%s { animation-name: %s; animation-fill-mode: both; }\n", kind, kind)
		b.WriteString(keyframes[kind])
		b.WriteString("\n")
	}
	b.WriteString("</style>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("<div id=\"banner\">\n")
	for _, el := range doc.Elements {
		b.WriteString(exportElement(el))
		b.WriteString("\n")
	}
	for _, img := range doc.Images {
		b.WriteString(exportImage(img))
		b.WriteString("\n")
	}
	b.WriteString("</div>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
	return b.String()
}

// usedAnimations lists the animation kinds present, in declaration order.
func usedAnimations(doc Document) []AnimationKind {
	seen := make(map[AnimationKind]bool)
	for _, el := range doc.Elements {
		seen[el.Animation.Kind] = true
	}
	for _, img := range doc.Images {
		seen[img.Animation.Kind] = true
	}
	var kinds []AnimationKind
	for _, kind := range []AnimationKind{AnimFadeIn, AnimBounce, AnimSlideInLeft, AnimZoomIn} {
		if seen[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func classes(anim Animation) string {
	if anim.Kind == AnimNone {
		return "element"
	}
	return "element " + anim.Kind.String()
}

func timing(anim Animation) string {
	if anim.Kind == AnimNone {
		return ""
	}
	return fmt.Sprintf(" animation-duration: %s; animation-delay: %s; animation-iteration-count: %s;",
		seconds(anim.Duration), seconds(anim.Delay), anim.Iterations)
}

func border(stroke string) string {
	if stroke == "" {
		return "border: none;"
	}
	return "border: 1px solid " + attr(stroke) + ";"
}

func exportElement(el Element) string {
	switch el.Kind {
	case KindText:
		return fmt.Sprintf(`<div class="%s" style="left: %s; top: %s; font-size: %s; color: %s; white-space: pre;%s">%s</div>`,
			classes(el.Animation), px(el.X), px(el.Y), px(el.FontSize), attr(el.Fill), timing(el.Animation), html.EscapeString(el.Text))
	case KindRect:
		return fmt.Sprintf(`<div class="%s" style="left: %s; top: %s; width: %s; height: %s; background: %s; %s%s"></div>`,
			classes(el.Animation), px(el.X), px(el.Y), px(el.Width), px(el.Height), attr(el.Fill), border(el.Stroke), timing(el.Animation))
	case KindCircle:
		// X/Y is the circle's center; the box starts one radius up and left.
		return fmt.Sprintf(`<div class="%s" style="left: %s; top: %s; width: %s; height: %s; background: %s; %s border-radius: 50%%;%s"></div>`,
			classes(el.Animation), px(el.X-el.Radius), px(el.Y-el.Radius), px(2*el.Radius), px(2*el.Radius), attr(el.Fill), border(el.Stroke), timing(el.Animation))
	case KindPolygon:
		return exportPolygon(el)
	}
	return ""
}

// exportPolygon sizes the svg to the tight bounds of the points and moves the
// points so the box origin is their minimum.
func exportPolygon(el Element) string {
	minX, minY, maxX, maxY := pointBounds(el.Points)
	coords := make([]string, 0, len(el.Points)/2)
	for i := 0; i+1 < len(el.Points); i += 2 {
		coords = append(coords, strconv.FormatFloat(el.Points[i]-minX, 'f', -1, 64)+","+strconv.FormatFloat(el.Points[i+1]-minY, 'f', -1, 64))
	}
	stroke := el.Stroke
	if stroke == "" {
		stroke = "none"
	}
	tag, fill := "polygon", el.Fill
	if !el.Closed {
		tag, fill = "polyline", "none"
	}
	width := strconv.FormatFloat(maxX-minX, 'f', -1, 64)
	height := strconv.FormatFloat(maxY-minY, 'f', -1, 64)
	return fmt.Sprintf(`<svg class="%s" style="left: %s; top: %s; overflow: visible;%s" width="%s" height="%s" viewBox="0 0 %s %s"><%s points="%s" style="fill: %s; stroke: %s; stroke-width: 1;" /></svg>`,
		classes(el.Animation), px(el.X+minX), px(el.Y+minY), timing(el.Animation), width, height, width, height,
		tag, strings.Join(coords, " "), attr(fill), attr(stroke))
}

func exportImage(img ImageElement) string {
	return fmt.Sprintf(`<img class="%s" src="%s" alt="" style="left: %s; top: %s; width: %s; height: %s;%s" />`,
		classes(img.Animation), attr(imageSource(img)), px(img.X), px(img.Y), px(img.Width), px(img.Height), timing(img.Animation))
}

// imageSource embeds the bitmap as a PNG data URI so the page needs no other
// files. Without a bitmap the original source path is used.
func imageSource(img ImageElement) string {
	if img.Bitmap == nil {
		return img.Source
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Bitmap); err != nil {
		return img.Source
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func writeHTML(filename string, doc Document, banner BannerConfig) error {
	return os.WriteFile(filename, []byte(ExportHTML(doc, banner)), 0644)
}
