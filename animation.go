package main

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// frame is how an entrance animation displaces an entry at one instant.
type frame struct {
	DX    float64
	DY    float64
	Scale float64
	Alpha float64
}

var restFrame = frame{Scale: 1, Alpha: 1}

// sampleAnimation returns the animation state t seconds after the page
// loaded. t < 0 means a static snapshot and always yields the rest frame.
func sampleAnimation(anim Animation, t float64, banner BannerConfig) frame {
	if anim.Kind == AnimNone || t < 0 || anim.Duration <= 0 {
		return restFrame
	}
	local := t - anim.Delay
	if local < 0 {
		return startFrame(anim.Kind, banner)
	}
	if !anim.Iterations.Infinite && local >= anim.Duration*float64(anim.Iterations.N) {
		return restFrame
	}
	local = math.Mod(local, anim.Duration)

	d := float32(anim.Duration)
	step := float32(local)
	switch anim.Kind {
	case AnimFadeIn:
		alpha, _ := gween.New(0, 1, d, ease.Linear).Update(step)
		return frame{Scale: 1, Alpha: float64(alpha)}
	case AnimBounce:
		dy, _ := gween.New(-30, 0, d, ease.OutBounce).Update(step)
		return frame{DY: float64(dy), Scale: 1, Alpha: 1}
	case AnimSlideInLeft:
		dx, _ := gween.New(float32(-banner.Width), 0, d, ease.OutCubic).Update(step)
		return frame{DX: float64(dx), Scale: 1, Alpha: 1}
	case AnimZoomIn:
		scale, _ := gween.New(0.3, 1, d, ease.OutCubic).Update(step)
		alpha, _ := gween.New(0, 1, d/2, ease.Linear).Update(step)
		return frame{Scale: float64(scale), Alpha: float64(alpha)}
	}
	return restFrame
}

func startFrame(kind AnimationKind, banner BannerConfig) frame {
	switch kind {
	case AnimFadeIn:
		return frame{Scale: 1, Alpha: 0}
	case AnimBounce:
		return frame{DY: -30, Scale: 1, Alpha: 1}
	case AnimSlideInLeft:
		return frame{DX: float64(-banner.Width), Scale: 1, Alpha: 1}
	case AnimZoomIn:
		return frame{Scale: 0.3, Alpha: 0}
	}
	return restFrame
}
