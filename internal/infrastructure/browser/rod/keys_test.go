package rod

import (
	"testing"

	"github.com/go-rod/rod/lib/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyCombo(t *testing.T) {
	tests := []struct {
		raw       string
		key       input.Key
		modifiers []input.Key
		text      string
	}{
		{raw: "Enter", key: input.Enter},
		{raw: "enter", key: input.Enter},
		{raw: "ArrowDown", key: input.ArrowDown},
		{raw: "F5", key: input.F5},
		{raw: "a", key: input.Key('a')},
		{raw: "+", key: input.Key('+')},
		{raw: "Control+A", key: input.Key('a'), modifiers: []input.Key{input.ControlLeft}},
		{raw: "Control+Shift+Tab", key: input.Tab, modifiers: []input.Key{input.ControlLeft, input.ShiftLeft}},
		{raw: "Shift", key: input.ShiftLeft},
		{raw: "ж", text: "ж"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			combo, err := parseKeyCombo(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.text, combo.text)
			if tt.text == "" {
				assert.Equal(t, tt.key, combo.key)
			}
			assert.Equal(t, tt.modifiers, combo.modifiers)
		})
	}
}

func TestParseKeyCombo_Unknown(t *testing.T) {
	for _, raw := range []string{"", "NotAKey", "Hyper+A", "Control+", "Control+ж"} {
		t.Run(raw, func(t *testing.T) {
			_, err := parseKeyCombo(raw)
			assert.ErrorIs(t, err, ErrUnknownKey)
		})
	}
}
