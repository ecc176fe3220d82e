package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"pagevision/internal/camera"
	"pagevision/internal/frame"
)

// Options tune detection and preprocessing.
type Options struct {
	MinContourArea  float64
	MaxContourRatio float64
	EnableDenoise   bool
	EnableDeskew    bool
}

// Preprocess converts a BGR frame into a binary image suited to OCR:
// grayscale, 5x5 Gaussian blur, CLAHE, adaptive Gaussian threshold, and a
// 2x2 morphological close. The caller owns the returned Mat.
func Preprocess(src gocv.Mat) gocv.Mat {
	gray := toGray(src)
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	clahe := gocv.NewCLAHEWithParams(2.0, image.Pt(8, 8))
	defer clahe.Close()
	enhanced := gocv.NewMat()
	defer enhanced.Close()
	clahe.Apply(blurred, &enhanced)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(enhanced, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, 11, 2)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(2, 2))
	defer kernel.Close()
	out := gocv.NewMat()
	gocv.MorphologyEx(thresh, &out, gocv.MorphClose, kernel)
	return out
}

// Denoise applies non-local means denoising to a grayscale or binary image.
func Denoise(src gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.FastNlMeansDenoisingWithParams(src, &out, 10, 7, 21)
	return out
}

// Deskew rotates a binary image so the dominant text block is level. Images
// with no dark pixels are returned unchanged (as a copy).
func Deskew(src gocv.Mat) gocv.Mat {
	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(src, &inverted)

	points := gocv.NewMat()
	defer points.Close()
	gocv.FindNonZero(inverted, &points)
	if points.Empty() {
		return src.Clone()
	}
	pv := gocv.NewPointVectorFromMat(points)
	defer pv.Close()

	rect := gocv.MinAreaRect(pv)
	angle := rect.Angle
	if angle > 45 {
		angle -= 90
	}
	if math.Abs(angle) < 0.1 {
		return src.Clone()
	}

	center := image.Pt(src.Cols()/2, src.Rows()/2)
	rotation := gocv.GetRotationMatrix2D(center, angle, 1.0)
	defer rotation.Close()

	out := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &out, rotation, image.Pt(src.Cols(), src.Rows()),
		gocv.InterpolationCubic, gocv.BorderReplicate, color.RGBA{})
	return out
}

// TextDensity returns the fraction of zero (dark) pixels in a binary image,
// or 0 for an empty image.
func TextDensity(binary gocv.Mat) float64 {
	total := binary.Total()
	if binary.Empty() || total == 0 {
		return 0
	}
	return float64(total-gocv.CountNonZero(binary)) / float64(total)
}

// EncodePNG encodes a Mat for the OCR engine.
func EncodePNG(m gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, m)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...), nil
}

func toGray(src gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if src.Channels() == 1 {
		src.CopyTo(&gray)
		return gray
	}
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	return gray
}

func matOf(f frame.Frame) (*gocv.Mat, error) {
	cf, ok := f.(*camera.Frame)
	if !ok || cf == nil {
		return nil, errors.New("frame is not an OpenCV frame")
	}
	return cf.Mat(), nil
}
