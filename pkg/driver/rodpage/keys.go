package rodpage

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-rod/rod/lib/input"
)

// errUnmappedRune marks a single character rod has no key definition for.
var errUnmappedRune = errors.New("no key definition")

var namedKeys = map[string]input.Key{
	"enter":      input.Enter,
	"return":     input.Enter,
	"tab":        input.Tab,
	"escape":     input.Escape,
	"esc":        input.Escape,
	"backspace":  input.Backspace,
	"delete":     input.Delete,
	"arrowup":    input.ArrowUp,
	"arrowdown":  input.ArrowDown,
	"arrowleft":  input.ArrowLeft,
	"arrowright": input.ArrowRight,
	"home":       input.Home,
	"end":        input.End,
	"pageup":     input.PageUp,
	"pagedown":   input.PageDown,
	"space":      input.Space,
}

// lookupKey maps a key name to a rod key. Single characters map to
// themselves when rod's keyboard layout defines them; other characters
// return an error wrapping errUnmappedRune.
func lookupKey(name string) (input.Key, error) {
	if k, ok := namedKeys[strings.ToLower(name)]; ok {
		return k, nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		k := input.Key(r)
		if !keyDefined(k) {
			return 0, fmt.Errorf("unknown key: %s: %w", name, errUnmappedRune)
		}
		return k, nil
	}
	return 0, fmt.Errorf("unknown key: %s", name)
}

// typedText reports whether key is a single printable character that can be
// sent as text input instead of a key event.
func typedText(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsPrint(r)
}

// keyDefined reports whether rod knows k. input.Key.Info panics on keys
// outside its layout and exposes no lookup.
func keyDefined(k input.Key) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	k.Info()
	return true
}
