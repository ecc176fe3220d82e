// Package controls maps single key presses to reader actions and puts the
// terminal into cbreak mode so keys arrive without Enter.
package controls

import "unicode"

// Action is a user command issued from the keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionSpeak
	ActionSave
	ActionToggleAutoSpeak
	ActionTogglePreprocessed
	ActionListVoices
	ActionQuit
)

const keyEscape = 27

// Binding pairs a key with its action for help output.
type Binding struct {
	Key         string
	Action      Action
	Description string
}

var bindings = []Binding{
	{"s", ActionSpeak, "speak the current text"},
	{"t", ActionSave, "save the current text"},
	{"a", ActionToggleAutoSpeak, "toggle auto-speak"},
	{"p", ActionTogglePreprocessed, "toggle the preprocessed view"},
	{"v", ActionListVoices, "list available voices"},
	{"q", ActionQuit, "quit"},
}

// Bindings returns the key map in display order.
func Bindings() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return out
}

// ForKey returns the action bound to key. Letters match case-insensitively
// and Escape quits.
func ForKey(key rune) Action {
	if key == keyEscape {
		return ActionQuit
	}
	key = unicode.ToLower(key)
	for _, b := range bindings {
		if rune(b.Key[0]) == key {
			return b.Action
		}
	}
	return ActionNone
}

func (a Action) String() string {
	switch a {
	case ActionSpeak:
		return "speak"
	case ActionSave:
		return "save"
	case ActionToggleAutoSpeak:
		return "toggle_auto_speak"
	case ActionTogglePreprocessed:
		return "toggle_preprocessed"
	case ActionListVoices:
		return "list_voices"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}
