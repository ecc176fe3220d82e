package vision

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"gocv.io/x/gocv"

	"pagevision/internal/frame"
	"pagevision/internal/textutil"
)

var (
	colorGreen  = color.RGBA{G: 255}
	colorRed    = color.RGBA{R: 255}
	colorOrange = color.RGBA{R: 255, G: 165}
	colorCyan   = color.RGBA{G: 255, B: 255}
	colorYellow = color.RGBA{R: 255, G: 255}
	colorWhite  = color.RGBA{R: 255, G: 255, B: 255}
	colorGray   = color.RGBA{R: 200, G: 200, B: 200}
)

const (
	panelHeight   = 180
	panelOpacity  = 0.6
	lineHeight    = 25
	maxPanelChars = 60
)

// DrawOverlay annotates dst in place with the page outline, word boxes, and
// the status panel.
func DrawOverlay(dst *gocv.Mat, o frame.Overlay) {
	if o.Detection.Found && len(o.Detection.Contour) > 0 {
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{o.Detection.Contour})
		gocv.DrawContours(dst, pv, -1, colorGreen, 3)
		pv.Close()
	}
	for _, w := range o.Words {
		gocv.Rectangle(dst, w.Bounds, colorGreen, 2)
		if o.ShowConfidence {
			label := fmt.Sprintf("%.0f%%", w.Confidence)
			gocv.PutText(dst, label, image.Pt(w.Bounds.Min.X, w.Bounds.Min.Y-5), gocv.FontHersheySimplex, 0.5, colorGreen, 1)
		}
	}
	drawPanel(dst, o)
}

func drawPanel(dst *gocv.Mat, o frame.Overlay) {
	width, height := dst.Cols(), dst.Rows()
	if width < 40 || height < panelHeight {
		return
	}

	shaded := dst.Clone()
	gocv.Rectangle(&shaded, image.Rect(10, 10, width-10, panelHeight), color.RGBA{}, -1)
	gocv.AddWeighted(shaded, panelOpacity, *dst, 1-panelOpacity, 0, dst)
	shaded.Close()

	y := 35
	put := func(text string, scale float64, c color.RGBA, thickness int) {
		gocv.PutText(dst, text, image.Pt(20, y), gocv.FontHersheySimplex, scale, c, thickness)
		y += lineHeight
	}

	put("PageVision - Real-time Text Reader", 0.7, colorCyan, 2)
	put("Document: "+textutil.Ternary(o.DocumentFound, "DETECTED", "NO PAGE"), 0.5,
		textutil.Ternary(o.DocumentFound, colorGreen, colorRed), 1)
	put("Auto-Speak: "+textutil.Ternary(o.AutoSpeak, "ON", "OFF"), 0.5,
		textutil.Ternary(o.AutoSpeak, colorGreen, colorOrange), 1)
	put("Language: "+strings.ToUpper(o.Language), 0.5, colorYellow, 1)
	if o.CurrentText != "" {
		put("Text: "+textutil.Truncate(o.CurrentText, maxPanelChars), 0.5, colorWhite, 1)
	}
	if o.Speaking {
		put("Speaking...", 0.5, colorCyan, 1)
	}

	gocv.PutText(dst, "Q quit | S speak | T save | A auto-speak | P view | V voices",
		image.Pt(20, height-20), gocv.FontHersheySimplex, 0.5, colorGray, 1)
}
