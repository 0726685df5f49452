package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeMove
	ModeResize
	ModeTextInput
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpAddImage FileOperation = iota
	FileOpExportHTML
	FileOpExportPNG
	FileOpBannerSize
	FileOpSetProperty
)

type ConfirmAction int

const (
	ConfirmDelete ConfirmAction = iota
	ConfirmQuit
)

// ElementKind is the closed set of drawable element variants. Adding a kind
// means updating mutation.go, editor.go, export.go, raster.go and canvas.go.
type ElementKind int

const (
	KindText ElementKind = iota
	KindRect
	KindCircle
	KindPolygon
)

func (k ElementKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

func parseElementKind(s string) (ElementKind, bool) {
	switch s {
	case "text":
		return KindText, true
	case "rect", "rectangle":
		return KindRect, true
	case "circle":
		return KindCircle, true
	case "polygon", "triangle":
		return KindPolygon, true
	}
	return 0, false
}

type AnimationKind int

const (
	AnimNone AnimationKind = iota
	AnimFadeIn
	AnimBounce
	AnimSlideInLeft
	AnimZoomIn
)

var animationNames = []string{"none", "fadeIn", "bounce", "slideInLeft", "zoomIn"}

func (k AnimationKind) String() string {
	if int(k) < 0 || int(k) >= len(animationNames) {
		return "none"
	}
	return animationNames[k]
}

func parseAnimationKind(s string) (AnimationKind, bool) {
	for i, name := range animationNames {
		if name == s {
			return AnimationKind(i), true
		}
	}
	return AnimNone, false
}

// Property keys accepted by SetProperty.
const (
	PropFill          = "fill"
	PropStroke        = "stroke"
	PropFontSize      = "fontSize"
	PropText          = "text"
	PropAnimKind      = "animation.kind"
	PropAnimDuration  = "animation.duration"
	PropAnimDelay     = "animation.delay"
	PropAnimIteration = "animation.iterations"
)

const (
	minBoxSize      = 5.0  // smallest width/height a resize gesture may produce
	imagePadding    = 40.0 // images larger than banner minus padding are scaled down
	defaultX        = 20.0
	defaultY        = 20.0
	defaultDebounce = 300 * time.Millisecond

	defaultBannerWidth  = 600
	defaultBannerHeight = 400
	maxBannerSize       = 8192

	charWidth  = 8.0  // banner pixels per terminal cell at zoom 1
	charHeight = 16.0 // banner pixels per terminal row at zoom 1

	minZoom  = 0.25
	maxZoom  = 4.0
	zoomStep = 1.25

	htmlExportName = "banner-design.html"
	pngExportName  = "banner-design.png"
)

// fillPalette is what the f/F keys cycle through.
var fillPalette = []string{"black", "white", "red", "green", "blue", "orange", "purple", "#ffcc00"}

var textSuggestions = []string{"Shop Now!", "Limited Offer!", "Get Started"}
