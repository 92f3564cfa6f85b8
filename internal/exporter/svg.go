package exporter

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"

	"farsreport/internal/errors"
	"farsreport/pkg/contracts/domain"
)

// Default SVG canvas.
const (
	DefaultMapWidth  = 800
	DefaultMapHeight = 600
	mapMargin        = 40
	pointRadius      = 2.5
)

// SVGMapRenderer draws incident locations on an equirectangular projection
// fitted to the bounding box of the points.
type SVGMapRenderer struct {
	Width  int
	Height int
	Color  string
}

// NewSVGMapRenderer returns a renderer with the default canvas.
func NewSVGMapRenderer() *SVGMapRenderer {
	return &SVGMapRenderer{Width: DefaultMapWidth, Height: DefaultMapHeight, Color: "#c0392b"}
}

type bounds struct {
	minLon, maxLon, minLat, maxLat float64
}

func boundsOf(points []domain.MapPoint) bounds {
	b := bounds{
		minLon: math.Inf(1), maxLon: math.Inf(-1),
		minLat: math.Inf(1), maxLat: math.Inf(-1),
	}
	for _, p := range points {
		b.minLon = math.Min(b.minLon, p.Longitude)
		b.maxLon = math.Max(b.maxLon, p.Longitude)
		b.minLat = math.Min(b.minLat, p.Latitude)
		b.maxLat = math.Max(b.maxLat, p.Latitude)
	}
	// a single location still needs a non-empty extent
	if b.maxLon-b.minLon < 1e-9 {
		b.minLon, b.maxLon = b.minLon-0.5, b.maxLon+0.5
	}
	if b.maxLat-b.minLat < 1e-9 {
		b.minLat, b.maxLat = b.minLat-0.5, b.maxLat+0.5
	}
	return b
}

// Render writes an SVG document with one circle per point.
func (r *SVGMapRenderer) Render(w io.Writer, title string, points []domain.MapPoint) error {
	if len(points) == 0 {
		return errors.NewAppValidationError("no points to render")
	}

	width, height := r.Width, r.Height
	if width <= 2*mapMargin {
		width = DefaultMapWidth
	}
	if height <= 2*mapMargin {
		height = DefaultMapHeight
	}
	color := r.Color
	if color == "" {
		color = "#c0392b"
	}

	b := boundsOf(points)
	plotW := float64(width - 2*mapMargin)
	plotH := float64(height - 2*mapMargin)
	project := func(p domain.MapPoint) (float64, float64) {
		x := mapMargin + (p.Longitude-b.minLon)/(b.maxLon-b.minLon)*plotW
		y := mapMargin + (b.maxLat-p.Latitude)/(b.maxLat-b.minLat)*plotH
		return x, y
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	bw.WriteString("<title>")
	xml.EscapeText(bw, []byte(title))
	bw.WriteString("</title>\n")
	bw.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>` + "\n")
	fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%.0f" height="%.0f" fill="none" stroke="#999999"/>`+"\n",
		mapMargin, mapMargin, plotW, plotH)
	fmt.Fprintf(bw, `<text x="%d" y="%d" font-family="sans-serif" font-size="16" text-anchor="middle">`,
		width/2, mapMargin/2+6)
	xml.EscapeText(bw, []byte(title))
	bw.WriteString("</text>\n")

	fmt.Fprintf(bw, `<g class="incidents" fill="%s" fill-opacity="0.7">`+"\n", color)
	for _, p := range points {
		x, y := project(p)
		fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%.1f"/>`+"\n", x, y, pointRadius)
	}
	bw.WriteString("</g>\n")

	fmt.Fprintf(bw, `<text x="%d" y="%d" font-family="sans-serif" font-size="10">lon %.3f..%.3f, lat %.3f..%.3f</text>`+"\n",
		mapMargin, height-mapMargin/3, b.minLon, b.maxLon, b.minLat, b.maxLat)
	bw.WriteString("</svg>\n")

	if err := bw.Flush(); err != nil {
		return errors.NewStorageError("failed to write map", err)
	}
	return nil
}
