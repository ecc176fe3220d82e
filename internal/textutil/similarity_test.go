package textutil

import (
	"math"
	"testing"
)

func TestJaccardSimilarityEmpty(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"both empty", "", ""},
		{"a empty", "", "anything"},
		{"b empty", "a", ""},
		{"whitespace only", "   ", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JaccardSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("JaccardSimilarity(%q, %q) = %v, want 0", tt.a, tt.b, got)
			}
		})
	}
}

func TestJaccardSimilarityIdentical(t *testing.T) {
	for _, text := range []string{"hello world", "a", "The quick brown fox"} {
		if got := JaccardSimilarity(text, text); got != 1.0 {
			t.Errorf("JaccardSimilarity(%q, itself) = %v, want 1.0", text, got)
		}
	}
}

func TestJaccardSimilarityCompleteDifferent(t *testing.T) {
	if got := JaccardSimilarity("abc", "xyz"); got != 0 {
		t.Errorf("JaccardSimilarity(different) = %v, want 0", got)
	}
}

func TestJaccardSimilarityPartialOverlap(t *testing.T) {
	// {the, quick, fox} vs {the, quick, fox, jumps} -> 3/4
	got := JaccardSimilarity("the quick fox", "the quick fox jumps")
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("JaccardSimilarity(partial) = %v, want 0.75", got)
	}
}

func TestJaccardSimilarityIgnoresCaseOrderAndDuplicates(t *testing.T) {
	got := JaccardSimilarity("Hello hello WORLD", "world HELLO")
	if got != 1.0 {
		t.Errorf("JaccardSimilarity(case/order/dupes) = %v, want 1.0", got)
	}
}

func TestJaccardSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"hello world program", "world program test"},
		{"one", "one two three"},
		{"", "x"},
	}
	for _, p := range pairs {
		ab := JaccardSimilarity(p[0], p[1])
		ba := JaccardSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("JaccardSimilarity not symmetric for %q/%q: (%v, %v)", p[0], p[1], ab, ba)
		}
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("a bb ccc d", 2); got != 2 {
		t.Errorf("CountWords = %d, want 2", got)
	}
	if got := CountWords("", 1); got != 0 {
		t.Errorf("CountWords(empty) = %d, want 0", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("hi", 5); got != "hi" {
		t.Errorf("Truncate(short) = %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes.txt", "notes.txt"},
		{"  a/b\\c:d*e.txt ", "a-b-c-d-e.txt"},
		{`what?"<>|.txt`, "what.txt"},
		{"../../etc/passwd", "-..-etc-passwd"},
		{".hidden", "hidden"},
		{"...", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTernary(t *testing.T) {
	if Ternary(true, "on", "off") != "on" || Ternary(false, 1, 2) != 2 {
		t.Fatal("Ternary picked the wrong branch")
	}
}
