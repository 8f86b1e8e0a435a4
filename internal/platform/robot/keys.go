package robot

import (
	"fmt"
	"strings"
)

// modifierNames maps accepted modifier spellings to robotgo's names.
var modifierNames = map[string]string{
	"ctrl": "ctrl", "control": "ctrl",
	"alt": "alt", "opt": "alt", "option": "alt",
	"shift": "shift",
	"cmd": "cmd", "command": "cmd", "win": "cmd", "super": "cmd",
}

// keyAliases normalizes key names that robotgo spells differently.
var keyAliases = map[string]string{
	"return":    "enter",
	"esc":       "escape",
	"del":       "delete",
	"bksp":      "backspace",
	"pgup":      "pageup",
	"pgdn":      "pagedown",
	"spacebar":  "space",
	"arrowup":   "up",
	"arrowdown": "down",
}

// splitCombo separates the single non-modifier key from its modifiers.
func splitCombo(keys []string) (string, []string, error) {
	var key string
	var modifiers []string
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if mod, ok := modifierNames[k]; ok {
			modifiers = append(modifiers, mod)
			continue
		}
		if key != "" {
			return "", nil, fmt.Errorf("combo %q has more than one non-modifier key", strings.Join(keys, "+"))
		}
		if alias, ok := keyAliases[k]; ok {
			k = alias
		}
		key = k
	}
	if key == "" {
		return "", nil, fmt.Errorf("no key specified in combo, only modifiers")
	}
	return key, modifiers, nil
}
