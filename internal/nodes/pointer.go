package nodes

import "strings"

// IsBlackboardPointer reports whether attribute text refers to a blackboard
// entry, i.e. has the form {key} once surrounding whitespace is removed.
func IsBlackboardPointer(text string) bool {
	text = strings.TrimSpace(text)
	return len(text) >= 3 && text[0] == '{' && text[len(text)-1] == '}'
}

// StripBlackboardPointer returns the key of a {key} pointer and true, or the
// text unchanged and false if it is not a pointer.
func StripBlackboardPointer(text string) (string, bool) {
	if !IsBlackboardPointer(text) {
		return text, false
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(text[1 : len(text)-1]), true
}

// remappedKey resolves the blackboard key an attribute points at. The forms
// {=} and = stand for the port's own name.
func remappedKey(text, port string) (string, bool) {
	if strings.TrimSpace(text) == "=" {
		return port, true
	}
	key, ok := StripBlackboardPointer(text)
	if !ok {
		return "", false
	}
	if key == "=" {
		return port, true
	}
	return key, true
}
