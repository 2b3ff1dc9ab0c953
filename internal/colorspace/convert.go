package colorspace

import "math"

// Conversions follow the 8-bit OpenCV conventions so extracted statistics
// stay comparable with pipelines built on cv2: hue is halved into [0,180),
// saturation and value span [0,255], and luma uses the BT.601 weights.

// Luma returns the grayscale value of an RGB pixel, rounded to 8 bits.
func Luma(c Color) uint8 {
	y := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	return uint8(math.Round(y))
}

// ToHSV converts an RGB pixel to 8-bit HSV.
func ToHSV(c Color) (h, s, v uint8) {
	rf := float64(c.R)
	gf := float64(c.G)
	bf := float64(c.B)

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	delta := maxC - minC

	var deg float64
	switch {
	case delta == 0:
		deg = 0
	case maxC == rf:
		deg = 60 * math.Mod((gf-bf)/delta+6, 6)
	case maxC == gf:
		deg = 60 * ((bf-rf)/delta + 2)
	default:
		deg = 60 * ((rf-gf)/delta + 4)
	}

	var sat float64
	if maxC > 0 {
		sat = 255 * delta / maxC
	}

	h = uint8(math.Round(deg/2)) % 180
	s = uint8(math.Round(sat))
	v = uint8(math.Round(maxC))
	return h, s, v
}

// convert projects a pixel into the channel tuple of a space.
func convert(c Color, space Space) [3]float64 {
	switch space {
	case HSV:
		h, s, v := ToHSV(c)
		return [3]float64{float64(h), float64(s), float64(v)}
	case Grayscale:
		return [3]float64{float64(Luma(c)), 0, 0}
	default:
		return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
	}
}
