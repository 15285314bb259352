package rod

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-rod/rod/lib/input"
)

var ErrUnknownKey = errors.New("unknown key")

var namedKeys = map[string]input.Key{
	"enter":      input.Enter,
	"return":     input.Enter,
	"tab":        input.Tab,
	"escape":     input.Escape,
	"esc":        input.Escape,
	"backspace":  input.Backspace,
	"delete":     input.Delete,
	"insert":     input.Insert,
	"arrowup":    input.ArrowUp,
	"arrowdown":  input.ArrowDown,
	"arrowleft":  input.ArrowLeft,
	"arrowright": input.ArrowRight,
	"home":       input.Home,
	"end":        input.End,
	"pageup":     input.PageUp,
	"pagedown":   input.PageDown,
	"space":      input.Space,
	"f1":         input.F1,
	"f2":         input.F2,
	"f3":         input.F3,
	"f4":         input.F4,
	"f5":         input.F5,
	"f6":         input.F6,
	"f7":         input.F7,
	"f8":         input.F8,
	"f9":         input.F9,
	"f10":        input.F10,
	"f11":        input.F11,
	"f12":        input.F12,
}

var modifierKeys = map[string]input.Key{
	"shift":   input.ShiftLeft,
	"control": input.ControlLeft,
	"ctrl":    input.ControlLeft,
	"alt":     input.AltLeft,
	"meta":    input.MetaLeft,
	"cmd":     input.MetaLeft,
}

type keyCombo struct {
	modifiers []input.Key
	key       input.Key
	// text is set instead of key for characters outside the US keyboard layout.
	text string
}

// parseKeyCombo accepts key names such as "Enter", "a" or "Control+A".
// Names are case-insensitive; a single character is typed as is.
func parseKeyCombo(raw string) (keyCombo, error) {
	var combo keyCombo
	if raw == "" {
		return combo, fmt.Errorf("%w: empty", ErrUnknownKey)
	}

	parts := []string{raw}
	if raw != "+" && strings.Contains(raw, "+") {
		parts = strings.Split(raw, "+")
	}

	for _, mod := range parts[:len(parts)-1] {
		k, ok := modifierKeys[strings.ToLower(strings.TrimSpace(mod))]
		if !ok {
			return combo, fmt.Errorf("%w: modifier %q in %q", ErrUnknownKey, mod, raw)
		}
		combo.modifiers = append(combo.modifiers, k)
	}

	name := parts[len(parts)-1]
	if name == "" {
		return combo, fmt.Errorf("%w: %q", ErrUnknownKey, raw)
	}
	if k, ok := namedKeys[strings.ToLower(name)]; ok {
		combo.key = k
		return combo, nil
	}
	if k, ok := modifierKeys[strings.ToLower(name)]; ok && len(parts) == 1 {
		combo.key = k
		return combo, nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		switch {
		case r >= 0x20 && r <= 0x7e:
			if len(combo.modifiers) > 0 && r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			combo.key = input.Key(r)
			return combo, nil
		case len(combo.modifiers) == 0:
			combo.text = name
			return combo, nil
		}
	}
	return combo, fmt.Errorf("%w: %q (use Enter, Tab, Escape, ArrowDown, a single character, or Control+A)", ErrUnknownKey, raw)
}
