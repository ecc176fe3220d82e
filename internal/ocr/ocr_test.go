package ocr

import (
	"image"
	"slices"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "  hello \n\t world  ", "hello world"},
		{"drops noise symbols", "total: $42 | ~done~", "total: 42  done"},
		{"keeps punctuation", `Say "hi" (now)! [ok]; yes, no? it's-fine.`, `Say "hi" (now)! [ok]; yes, no? it's-fine.`},
		{"folds ligatures", "ﬁnal ｆｕｌｌ", "final full"},
		{"keeps accents", "café niño", "café niño"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Fatalf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilterWords(t *testing.T) {
	res := Result{Words: []Word{
		{Text: "keep", Confidence: 91, Bounds: image.Rect(0, 0, 10, 10)},
		{Text: "edge", Confidence: 30},
		{Text: "  ", Confidence: 99},
		{Text: " trim ", Confidence: 31},
		{Text: "low", Confidence: 5},
	}}
	got := res.FilterWords(30)
	if len(got) != 2 {
		t.Fatalf("FilterWords returned %d words, want 2: %+v", len(got), got)
	}
	if got[0].Text != "keep" || got[1].Text != "trim" {
		t.Fatalf("unexpected words: %+v", got)
	}
	if got[0].Bounds != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds not preserved: %v", got[0].Bounds)
	}
}

func TestSplitLanguages(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"eng", []string{"eng"}},
		{"eng+nep", []string{"eng", "nep"}},
		{" eng , deu ", []string{"eng", "deu"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := SplitLanguages(tt.in)
		if !slices.Equal(got, tt.want) {
			t.Fatalf("SplitLanguages(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
