package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// Compartment stroke colors, shared with the terminal plot.
const (
	ColorSusceptible = "#00aaff"
	ColorInfected    = "#ff5555"
	ColorRecovered   = "#55ff55"
)

type point struct{ X, Y float64 }

type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(series ...[]point) bounds {
	b := bounds{minX: series[0][0].X, maxX: series[0][0].X, minY: series[0][0].Y, maxY: series[0][0].Y}
	for _, pts := range series {
		for _, p := range pts {
			b.minX = min(b.minX, p.X)
			b.maxX = max(b.maxX, p.X)
			b.minY = min(b.minY, p.Y)
			b.maxY = max(b.maxY, p.Y)
		}
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minY -= rangeY * 0.05
	b.maxY += rangeY * 0.05
	if b.maxX == b.minX {
		b.maxX = b.minX + rangeX
	}
	return b
}

func writeHeader(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

func writePath(sb *strings.Builder, pts []point, b bounds, width, height int, stroke, label string) {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, label, stroke))
	for i, p := range pts {
		x := (p.X - b.minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-b.minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}

// TrajectoryToSVG draws S, I and R against time on shared axes.
// Fewer than two samples yield an empty string.
func TrajectoryToSVG(samples []dynamo.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	s := make([]point, len(samples))
	i := make([]point, len(samples))
	r := make([]point, len(samples))
	for k, sample := range samples {
		s[k] = point{sample.Time, sample.S}
		i[k] = point{sample.Time, sample.I}
		r[k] = point{sample.Time, sample.R}
	}
	b := boundsOf(s, i, r)

	var sb strings.Builder
	writeHeader(&sb, width, height)
	writePath(&sb, s, b, width, height, ColorSusceptible, "susceptible")
	writePath(&sb, i, b, width, height, ColorInfected, "infected")
	writePath(&sb, r, b, width, height, ColorRecovered, "recovered")
	sb.WriteString("</svg>")
	return sb.String()
}

// PhaseToSVG draws the (S, I) phase portrait.
func PhaseToSVG(samples []dynamo.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	pts := make([]point, len(samples))
	for k, sample := range samples {
		pts[k] = point{sample.S, sample.I}
	}
	b := boundsOf(pts)

	var sb strings.Builder
	writeHeader(&sb, width, height)
	writePath(&sb, pts, b, width, height, ColorInfected, "phase")
	sb.WriteString("</svg>")
	return sb.String()
}

func WriteSVG(w io.Writer, svg string) error {
	if svg == "" {
		return fmt.Errorf("not enough samples to draw")
	}
	_, err := io.WriteString(w, svg)
	return err
}
