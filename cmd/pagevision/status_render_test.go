package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"pagevision/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Camera", statusError, "/dev/video0 not present", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Camera:", "[ERROR] /dev/video0 not present")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Camera", statusOK, "/dev/video0", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestResultKind(t *testing.T) {
	tests := []struct {
		result preflight.Result
		want   statusKind
	}{
		{preflight.Result{Passed: true}, statusOK},
		{preflight.Result{Passed: false, Optional: true}, statusWarn},
		{preflight.Result{Passed: false}, statusError},
	}
	for _, tt := range tests {
		if got := resultKind(tt.result); got != tt.want {
			t.Fatalf("resultKind(%+v) = %v, want %v", tt.result, got, tt.want)
		}
	}
}

func TestRenderTableWrapsAndPads(t *testing.T) {
	out := renderTable([]tableColumn{
		{Header: "Name"},
		{Header: "Count", Align: alignRight},
	}, [][]string{{"frames", "12"}, {"short"}})
	for _, want := range []string{"Name", "Count", "frames", "12", "short"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty output without columns")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
