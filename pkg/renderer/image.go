package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// vec3ToColor converts a linear radiance value to RGBA with gamma
// correction and clamping
func vec3ToColor(colorVec core.Vec3, gamma float64) color.RGBA {
	if !colorVec.IsFinite() {
		colorVec = core.Vec3{}
	}

	// Clamp before gamma so negative components cannot reach math.Pow
	colorVec = colorVec.Clamp(0.0, 1.0).GammaCorrect(gamma)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// assembleImage creates an image from the averaged pixel statistics
func assembleImage(pixelStats [][]PixelStats, width, height int, gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pixelStats[y][x].GetColor(), gamma))
		}
	}
	return img
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
		}
	}
	return total / float64(pixels)
}
