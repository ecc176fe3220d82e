// Package camera wraps a V4L2 webcam opened through OpenCV.
package camera

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"pagevision/internal/frame"
)

// ErrReadFailed is returned when the device yields no frame, typically because
// it was unplugged.
var ErrReadFailed = errors.New("camera read failed")

// Options describe the device to open.
type Options struct {
	Index  int
	Width  int
	Height int
	FPS    int
}

// Device is an open capture device.
type Device struct {
	opts Options

	mu      sync.Mutex
	capture *gocv.VideoCapture
}

// Open starts capture on /dev/video<Index> and applies the requested geometry.
func Open(opts Options) (*Device, error) {
	capture, err := gocv.OpenVideoCapture(opts.Index)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", opts.Index, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open camera %d: device not available", opts.Index)
	}
	if opts.Width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(opts.Width))
	}
	if opts.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(opts.Height))
	}
	if opts.FPS > 0 {
		capture.Set(gocv.VideoCaptureFPS, float64(opts.FPS))
	}
	return &Device{opts: opts, capture: capture}, nil
}

// DevicePath returns the V4L2 node backing the device.
func (d *Device) DevicePath() string {
	return DevicePath(d.opts.Index)
}

// DevicePath returns the V4L2 node for a camera index.
func DevicePath(index int) string {
	return fmt.Sprintf("/dev/video%d", index)
}

// Read captures the next frame. The caller must Close it.
func (d *Device) Read() (frame.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.capture == nil {
		return nil, ErrReadFailed
	}
	mat := gocv.NewMat()
	if ok := d.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrReadFailed
	}
	return &Frame{mat: mat}, nil
}

// Close releases the device. It is safe to call more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.capture == nil {
		return nil
	}
	err := d.capture.Close()
	d.capture = nil
	return err
}

// Frame is a captured BGR image backed by an OpenCV matrix.
type Frame struct {
	mat gocv.Mat
}

// Wrap adopts mat as a Frame. The Frame takes ownership of mat.
func Wrap(mat gocv.Mat) *Frame {
	return &Frame{mat: mat}
}

// Mat exposes the underlying matrix to OpenCV routines.
func (f *Frame) Mat() *gocv.Mat {
	return &f.mat
}

func (f *Frame) Size() image.Point {
	return image.Pt(f.mat.Cols(), f.mat.Rows())
}

func (f *Frame) Close() error {
	return f.mat.Close()
}
