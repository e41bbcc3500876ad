package viz

import (
	"math"

	"github.com/san-kum/gravlab/internal/dynamo"
)

// Camera looks down the Y axis at the X-Z orbital plane. Tilt rotates the
// view about X so motion out of the plane shows; Extent is the world
// distance from Center to the nearest screen edge at Zoom 1.
type Camera struct {
	Center dynamo.Vec3
	Extent float64
	Tilt   float64
	Zoom   float64
}

func NewCamera(bs dynamo.Bodies) *Camera {
	c := &Camera{Zoom: 1}
	c.Fit(bs)
	return c
}

// Fit centers on the anchor and frames every body with some margin.
func (c *Camera) Fit(bs dynamo.Bodies) {
	c.Center = bs.AnchorPosition()
	far := 0.0
	for _, b := range bs {
		far = math.Max(far, b.Position.Sub(c.Center).Norm()+b.Radius)
	}
	c.Extent = math.Max(far*1.3, 1)
}

func (c *Camera) TiltBy(a float64) { c.Tilt = math.Max(0, math.Min(math.Pi/2, c.Tilt+a)) }
func (c *Camera) ZoomIn()          { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()         { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) scale(sw, sh int) float64 {
	return float64(min(sw, sh)) / 2 / c.Extent * c.Zoom
}

// Project maps a world point to sub-pixel coordinates on a sw x sh canvas.
// Depth grows toward the viewer.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, float64, bool) {
	d := p.Sub(c.Center)
	cos, sin := math.Cos(c.Tilt), math.Sin(c.Tilt)
	vertical := d.Z*cos - d.Y*sin
	depth := d.Y*cos + d.Z*sin

	k := c.scale(sw, sh)
	fx := float64(sw)/2 + d.X*k
	fy := float64(sh)/2 + vertical*k
	if math.IsNaN(fx) || math.IsNaN(fy) || math.Abs(fx) > 1e6 || math.Abs(fy) > 1e6 {
		return 0, 0, depth, false
	}
	x, y := int(math.Round(fx)), int(math.Round(fy))
	return x, y, depth, x >= 0 && x < sw && y >= 0 && y < sh
}

// PixelRadius is a body radius in sub-pixels, at least 1.
func (c *Camera) PixelRadius(r float64, sw, sh int) int {
	return max(1, int(math.Round(r*c.scale(sw, sh))))
}
