// Package deps reports whether the external programs PageVision shells out
// to are installed, and which Tesseract language packs are present.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"time"
)

// Requirement names an external binary.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the outcome of checking one Requirement.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// CheckBinaries resolves each requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		switch {
		case req.Command == "":
			status.Detail = "command not configured"
		default:
			resolved, err := exec.LookPath(req.Command)
			if err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
				break
			}
			status.Path = resolved
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// TesseractLanguages runs `tesseract --list-langs` and returns the installed
// traineddata names, sorted.
func TesseractLanguages(ctx context.Context, command string) ([]string, error) {
	if strings.TrimSpace(command) == "" {
		command = "tesseract"
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, command, "--list-langs").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s --list-langs: %w", command, err)
	}
	return parseLanguageList(string(out)), nil
}

func parseLanguageList(output string) []string {
	var langs []string
	for line := range strings.Lines(output) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(strings.ToLower(line), "list of available languages") {
			continue
		}
		if strings.ContainsAny(line, " :") {
			continue
		}
		langs = append(langs, line)
	}
	slices.Sort(langs)
	return slices.Compact(langs)
}

// MissingLanguages returns the entries of wanted (a "+"-joined Tesseract
// language string) that are not in installed.
func MissingLanguages(wanted string, installed []string) []string {
	var missing []string
	for _, lang := range strings.Split(wanted, "+") {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		if !slices.Contains(installed, lang) {
			missing = append(missing, lang)
		}
	}
	return missing
}
