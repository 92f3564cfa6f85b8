package exporter

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farsreport/pkg/contracts/domain"
)

var circleRe = regexp.MustCompile(`<circle cx="([0-9.]+)" cy="([0-9.]+)"`)

func TestSVGMapRenderer_Render(t *testing.T) {
	points := []domain.MapPoint{
		{Longitude: -86.8, Latitude: 33.5},
		{Longitude: -85.4, Latitude: 31.2},
		{Longitude: -88.0, Latitude: 34.9},
	}

	var buf bytes.Buffer
	require.NoError(t, NewSVGMapRenderer().Render(&buf, "State 1 accidents, 2013", points))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	assert.Contains(t, out, "<title>State 1 accidents, 2013</title>")

	matches := circleRe.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, len(points))
	for _, m := range matches {
		x, err := strconv.ParseFloat(m[1], 64)
		require.NoError(t, err)
		y, err := strconv.ParseFloat(m[2], 64)
		require.NoError(t, err)
		assert.True(t, x >= mapMargin && x <= DefaultMapWidth-mapMargin, "x=%v", x)
		assert.True(t, y >= mapMargin && y <= DefaultMapHeight-mapMargin, "y=%v", y)
	}
}

func TestSVGMapRenderer_NorthIsUp(t *testing.T) {
	points := []domain.MapPoint{
		{Longitude: -100, Latitude: 40},
		{Longitude: -100, Latitude: 30},
	}

	var buf bytes.Buffer
	require.NoError(t, NewSVGMapRenderer().Render(&buf, "t", points))

	matches := circleRe.FindAllStringSubmatch(buf.String(), -1)
	require.Len(t, matches, 2)
	north, _ := strconv.ParseFloat(matches[0][2], 64)
	south, _ := strconv.ParseFloat(matches[1][2], 64)
	assert.Less(t, north, south)
}

func TestSVGMapRenderer_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSVGMapRenderer().Render(&buf, "one", []domain.MapPoint{{Longitude: -90, Latitude: 35}}))

	assert.NotContains(t, buf.String(), "NaN")
	assert.Len(t, circleRe.FindAllString(buf.String(), -1), 1)
}

func TestSVGMapRenderer_EscapesTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSVGMapRenderer().Render(&buf, "A<B & C", []domain.MapPoint{{Longitude: 1, Latitude: 1}}))

	assert.Contains(t, buf.String(), "A&lt;B &amp; C")
	assert.NotContains(t, buf.String(), "A<B")
}

func TestSVGMapRenderer_NoPoints(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewSVGMapRenderer().Render(&buf, "empty", nil))
	assert.Zero(t, buf.Len())
}
