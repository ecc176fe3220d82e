package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"pagevision/internal/language"
)

const (
	minRate = 50
	maxRate = 300
)

// EspeakOptions configure the espeak-ng engine.
type EspeakOptions struct {
	// Command is the binary name or path; empty means espeak-ng.
	Command string
	// Voice is an espeak-ng voice name. When empty, the voice is derived from
	// Language.
	Voice string
	// Language is the OCR language setting, e.g. "eng" or "eng+nep".
	Language string
	Rate     int
	Volume   float64
}

// Espeak speaks through the espeak-ng command line tool.
type Espeak struct {
	command string

	mu     sync.Mutex
	voice  string
	rate   int
	volume float64
}

// NewEspeak resolves the synthesizer binary and applies opts.
func NewEspeak(opts EspeakOptions) (*Espeak, error) {
	cmd := strings.TrimSpace(opts.Command)
	if cmd == "" {
		cmd = "espeak-ng"
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, cmd, err)
	}
	voice := strings.TrimSpace(opts.Voice)
	if voice == "" {
		voice = VoiceForLanguage(opts.Language)
	}
	e := &Espeak{command: resolved, voice: voice}
	e.SetRate(opts.Rate)
	e.SetVolume(opts.Volume)
	return e, nil
}

func (e *Espeak) Name() string { return "espeak-ng" }

// SetRate sets the speaking rate in words per minute, clamped to 50-300.
func (e *Espeak) SetRate(wpm int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = min(max(wpm, minRate), maxRate)
}

// SetVolume sets the volume, clamped to 0-1.
func (e *Espeak) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = math.Min(math.Max(v, 0), 1)
}

// SetVoice switches to the named voice; empty restores the synthesizer default.
func (e *Espeak) SetVoice(voice string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voice = strings.TrimSpace(voice)
}

// Settings returns the current voice, rate, and volume.
func (e *Espeak) Settings() (voice string, rate int, volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voice, e.rate, e.volume
}

func (e *Espeak) args(text string) []string {
	voice, rate, volume := e.Settings()
	args := make([]string, 0, 7)
	if voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, "-s", strconv.Itoa(rate))
	// espeak-ng amplitude runs 0-200 with 100 as the default level.
	args = append(args, "-a", strconv.Itoa(int(math.Round(volume*100))))
	return append(args, "--", text)
}

// Speak plays text and blocks until espeak-ng exits.
func (e *Espeak) Speak(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, e.command, e.args(trimmed)...)
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("espeak-ng: %w: %s", err, msg)
		}
		return fmt.Errorf("espeak-ng: %w", err)
	}
	return nil
}

// Voices lists installed voices by parsing `espeak-ng --voices`.
func (e *Espeak) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, e.command, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	return parseVoices(out), nil
}

// parseVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-gb           --/M      English_(Great_Britain) gmw/en    (en 2)
func parseVoices(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		gender := ""
		if _, g, ok := strings.Cut(fields[2], "/"); ok {
			gender = g
		}
		voices = append(voices, Voice{
			Language: fields[1],
			Gender:   gender,
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			File:     fields[4],
		})
	}
	return voices
}

// VoiceForLanguage maps a Tesseract language setting such as "eng",
// "chi_sim" or "eng+nep" to an espeak-ng voice code. The first language wins;
// unknown codes yield "" so espeak-ng uses its default voice.
func VoiceForLanguage(setting string) string {
	return language.Primary(setting)
}
