package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// scriptSuffixes are the Tesseract model variants that name a script.
var scriptSuffixes = map[string]string{
	"sim":  "Simplified",
	"tra":  "Traditional",
	"vert": "Vertical",
	"cyrl": "Cyrillic",
	"latn": "Latin",
}

// bibliographic holds the ISO 639-2/B names Tesseract still ships models
// under. ParseBase only knows the terminology forms.
var bibliographic = map[string]string{
	"alb": "sq",
	"arm": "hy",
	"baq": "eu",
	"bur": "my",
	"chi": "zh",
	"cze": "cs",
	"dut": "nl",
	"fre": "fr",
	"geo": "ka",
	"ger": "de",
	"gre": "el",
	"ice": "is",
	"mac": "mk",
	"mao": "mi",
	"may": "ms",
	"per": "fa",
	"rum": "ro",
	"slo": "sk",
	"tib": "bo",
	"wel": "cy",
}

// Codes splits a setting such as "eng+nep" into trimmed, lower-cased codes.
func Codes(setting string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(setting, func(r rune) bool { return r == '+' || r == ',' || r == ' ' }) {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Base returns the ISO 639-1 code for one Tesseract code, or "" when the
// code is not a language (e.g. "osd", "equ") or is unknown.
func Base(code string) string {
	head, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(code)), "_")
	if head == "" {
		return ""
	}
	if code, ok := bibliographic[head]; ok {
		return code
	}
	base, err := language.ParseBase(head)
	if err != nil {
		return ""
	}
	return base.String()
}

// Primary returns the ISO 639-1 code of the first language in setting.
func Primary(setting string) string {
	codes := Codes(setting)
	if len(codes) == 0 {
		return ""
	}
	return Base(codes[0])
}

// DisplayName returns the English name for one Tesseract code, falling back
// to the code itself.
func DisplayName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	base := Base(code)
	if base == "" {
		return code
	}
	name := display.English.Languages().Name(language.Make(base))
	if name == "" {
		return code
	}
	if _, variant, ok := strings.Cut(code, "_"); ok {
		if label, known := scriptSuffixes[variant]; known {
			name += " (" + label + ")"
		}
	}
	return name
}

// Describe names every language in setting, e.g. "English + Nepali".
func Describe(setting string) string {
	codes := Codes(setting)
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, DisplayName(code))
	}
	return strings.Join(names, " + ")
}
