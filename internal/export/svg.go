package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravlab/internal/dynamo"
)

const defaultStroke = "#00ff00"

// Orbit is one body's recorded path.
type Orbit struct {
	Name   string
	Color  string
	Points []dynamo.Vec3
}

// bounds is the X-Z box around every point, padded, with one scale for both
// axes so circles stay circles.
type bounds struct {
	minX, minZ float64
	scale      float64
	offX, offZ float64
}

func fit(orbits []Orbit, width, height int) (bounds, bool) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, o := range orbits {
		for _, p := range o.Points {
			if !p.IsValid() {
				continue
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minZ, maxZ = math.Min(minZ, p.Z), math.Max(maxZ, p.Z)
		}
	}
	if math.IsInf(minX, 1) {
		return bounds{}, false
	}

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	minZ -= rangeZ * 0.1
	rangeX *= 1.2
	rangeZ *= 1.2

	scale := math.Min(float64(width)/rangeX, float64(height)/rangeZ)
	return bounds{
		minX:  minX,
		minZ:  minZ,
		scale: scale,
		offX:  (float64(width) - rangeX*scale) / 2,
		offZ:  (float64(height) - rangeZ*scale) / 2,
	}, true
}

func (b bounds) project(p dynamo.Vec3) (float64, float64) {
	return b.offX + (p.X-b.minX)*b.scale, b.offZ + (p.Z-b.minZ)*b.scale
}

// OrbitsToSVG draws every orbit in the X-Z plane on a dark background and
// marks each body's last position.
func OrbitsToSVG(orbits []Orbit, width, height int) string {
	b, ok := fit(orbits, width, height)
	if !ok {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, o := range orbits {
		color := o.Color
		if color == "" {
			color = defaultStroke
		}

		first := true
		var last dynamo.Vec3
		var d strings.Builder
		for _, p := range o.Points {
			if !p.IsValid() {
				continue
			}
			x, y := b.project(p)
			if first {
				d.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				first = false
			} else {
				d.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
			last = p
		}
		if first {
			continue
		}

		sb.WriteString(fmt.Sprintf(`<g id="%s">
<path fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="0.7" d="%s"/>
`, svgID(o.Name), color, d.String()))
		x, y := b.project(last)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
</g>
`, x, y, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func svgID(name string) string {
	if name == "" {
		return "body"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
