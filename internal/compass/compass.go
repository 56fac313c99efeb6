// Package compass maps wind bearings onto the 16-point compass rose.
package compass

import "math"

const Unknown = "Unknown"

var points = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

const sector = 360.0 / 16

// Label returns the compass point for a bearing in degrees. Each sector
// includes its lower edge. 360 wraps to N; anything outside [0,360] is
// Unknown.
func Label(deg float64) string {
	if math.IsNaN(deg) || deg < 0 || deg > 360 {
		return Unknown
	}
	if deg == 360 {
		return points[0]
	}
	i := int(deg / sector)
	if i > 15 {
		i = 15
	}
	return points[i]
}
