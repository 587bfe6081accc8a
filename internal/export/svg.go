// Package export renders stored frames to standalone SVG images.
package export

import (
	"fmt"
	"strings"

	"github.com/okaryn/plife/internal/plife"
	"github.com/okaryn/plife/internal/viz"
)

// FrameToSVG projects one particle snapshot through cam onto a w×h
// pixel viewport and returns it as an SVG document, one palette-colored
// circle per visible particle.
func FrameToSVG(ps []plife.Particle, pal plife.Palette, cam *viz.Camera, w, h int, radius float64) string {
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	if radius <= 0 {
		radius = 2.5
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h))

	for i := range ps {
		x, y, ok := cam.Project(ps[i].Pos, w, h)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f" fill="%s"/>
`, x, y, radius, pal.Hex(ps[i].Color)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
