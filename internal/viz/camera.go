package viz

import (
	"math"

	"github.com/okaryn/plife/internal/plife"
)

// Camera projects points of the [-1, 1] simulation cube onto the canvas
// with simple perspective and user-driven rotation/zoom.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 3.0, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// rotate applies the camera's axis rotations to p.
func (c *Camera) rotate(p plife.Vec3) plife.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts a world point to sub-pixel canvas coordinates.
// Returns x, y and whether the point lands on a sw×sh screen.
func (c *Camera) Project(p plife.Vec3, sw, sh int) (int, int, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 2.4
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// cubeEdges are the wireframe edges of the wrapping domain boundary.
var cubeEdges = [][2]plife.Vec3{
	{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}},
	{{X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}},
	{{X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}},
	{{X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}},
	{{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}},
	{{X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}},
	{{X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}},
	{{X: -1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: 1}},
	{{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}},
	{{X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}},
	{{X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}},
	{{X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1}},
}

// DrawDomain draws the boundary cube of the wrapping domain.
func DrawDomain(c *Canvas, cam *Camera) {
	sw, sh := c.Width*2, c.Height*4
	for _, e := range cubeEdges {
		x0, y0, v0 := cam.Project(e[0], sw, sh)
		x1, y1, v1 := cam.Project(e[1], sw, sh)
		if v0 || v1 {
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}

// DrawParticles plots every particle of a snapshot.
func DrawParticles(c *Canvas, cam *Camera, ps []plife.Particle) {
	sw, sh := c.Width*2, c.Height*4
	for i := range ps {
		if x, y, ok := cam.Project(ps[i].Pos, sw, sh); ok {
			c.Set(x, y)
		}
	}
}
