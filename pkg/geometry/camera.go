package geometry

import (
	"math"

	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // Up direction
	Width       int       // Image width in pixels
	AspectRatio float64   // Width / height
	VFov        float64   // Vertical field of view in degrees
}

// Camera is a pinhole camera producing unit-direction primary rays
type Camera struct {
	config     CameraConfig
	height     int
	origin     core.Vec3
	upperLeft  core.Vec3 // Viewport corner at pixel (0, 0)
	horizontal core.Vec3 // Full viewport width vector
	vertical   core.Vec3 // Full viewport height vector, pointing down
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	if config.AspectRatio <= 0 {
		config.AspectRatio = 1
	}
	if config.Up.IsZero() {
		config.Up = core.NewVec3(0, 1, 0)
	}

	height := max(1, int(float64(config.Width)/config.AspectRatio))

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := viewportHeight * float64(config.Width) / float64(height)

	// Right-handed basis with w pointing backwards
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(-viewportHeight)
	upperLeft := config.Center.Subtract(w).
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5))

	return &Camera{
		config:     config,
		height:     height,
		origin:     config.Center,
		upperLeft:  upperLeft,
		horizontal: horizontal,
		vertical:   vertical,
	}
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.height
}

// GetRay returns the primary ray through pixel (i, j) at sub-pixel offset jitter ∈ [0,1)²
func (c *Camera) GetRay(i, j int, jitter core.Vec2) core.Ray {
	s := (float64(i) + jitter.X) / float64(c.config.Width)
	t := (float64(j) + jitter.Y) / float64(c.height)

	target := c.upperLeft.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	return core.NewRay(c.origin, target.Subtract(c.origin).Normalize())
}
