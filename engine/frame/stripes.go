package frame

import (
	"math"

	"github.com/Carmen-Shannon/oxy-frames/common"
)

const (
	// StripeEven is the opaque gray band.
	StripeEven = 0
	// StripeOdd is the transparent band.
	StripeOdd = 1

	// stripeBands is the number of bands per unit of normalized height, also the divisor of
	// the scroll offset.
	stripeBands = 8
)

var (
	stripeGray        = common.Color{R: 0.25, G: 0.25, B: 0.25, A: 1}
	stripeTransparent = common.Color{}
	stripeSlope       = math.Tan(math.Pi / 4)
)

// StripeClass classifies a normalized coordinate into a background band. The coordinate is
// scrolled by time/8 and sheared by tan(pi/4)*nx before being split into 8 bands per unit.
//
// Parameters:
//   - nx: the pixel x divided by the viewport height
//   - ny: the pixel y divided by the viewport height
//   - time: elapsed seconds
//
// Returns:
//   - int: StripeEven or StripeOdd
func StripeClass(nx, ny, time float32) int {
	y := float64(ny) + float64(time)/stripeBands - stripeSlope*float64(nx)
	band := int64(math.Floor(y * stripeBands))
	if band%2 == 0 {
		return StripeEven
	}
	return StripeOdd
}

// BackgroundColor is the color the background program produces for a pixel.
//
// Parameters:
//   - fragX, fragY: the pixel center in framebuffer coordinates (origin top-left)
//   - height: the viewport height in pixels
//   - time: elapsed seconds
//
// Returns:
//   - common.Color: opaque gray for even bands, transparent black for odd bands
func BackgroundColor(fragX, fragY float32, height uint32, time float32) common.Color {
	if height == 0 {
		return stripeTransparent
	}
	h := float32(height)
	if StripeClass(fragX/h, fragY/h, time) == StripeEven {
		return stripeGray
	}
	return stripeTransparent
}
