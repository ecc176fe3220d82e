package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"pagevision/internal/config"
	"pagevision/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCamera verifies that device is a character device the current user can open.
func CheckCamera(name, device string) Result {
	info, err := os.Stat(device)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s not present (is the camera plugged in?)", device)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", device, err)}
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a character device", device)}
	}
	if err := unix.Access(device, unix.R_OK|unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v; is the user in the video group?)", device, err)}
	}
	return Result{Name: name, Passed: true, Detail: device}
}

// CheckSystemDeps reports the external binaries cfg needs. The speech
// synthesizer is optional when speech is disabled.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "Tesseract",
			Command:     "tesseract",
			Description: "Lists installed OCR language data",
			Optional:    true,
		},
		{
			Name:        "Speech synthesizer",
			Command:     cfg.SpeechBinary(),
			Description: "Reads accepted text aloud",
			Optional:    !cfg.Speech.Enabled,
		},
	})
}

// CheckOCRLanguages verifies that traineddata exists for every language in
// the "+"-joined language string. The check is optional when the tesseract
// CLI cannot be run, since recognition itself goes through libtesseract.
func CheckOCRLanguages(ctx context.Context, language string) Result {
	const name = "OCR languages"
	installed, err := deps.TesseractLanguages(ctx, "tesseract")
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot list languages (%v)", err), Optional: true}
	}
	if missing := deps.MissingLanguages(language, installed); len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("missing traineddata: %s", strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: language}
}
