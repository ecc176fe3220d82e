package vision

import (
	"image"

	"gocv.io/x/gocv"

	"pagevision/internal/frame"
)

// DetectDocument looks for a page outline: the largest external contour
// whose area lies between opts.MinContourArea and opts.MaxContourRatio of the
// frame and whose approximated polygon has at least four corners.
func DetectDocument(src gocv.Mat, opts Options) frame.Detection {
	gray := toGray(src)
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, 50, 150)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	frameArea := float64(src.Rows() * src.Cols())
	var best frame.Detection
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < opts.MinContourArea || area > frameArea*opts.MaxContourRatio {
			continue
		}
		if area <= best.Area {
			continue
		}
		perimeter := gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, 0.02*perimeter, true)
		corners := approx.Size()
		approx.Close()
		if corners < 4 {
			continue
		}
		best = frame.Detection{Found: true, Contour: contour.ToPoints(), Area: area}
	}
	if best.Area <= opts.MinContourArea {
		return frame.Detection{}
	}
	return best
}
