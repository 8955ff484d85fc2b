package keybind

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/tidwall/sjson"
)

// SetBinding stores a under seq in the keybind document doc and returns the
// updated document. Other entries are left byte-for-byte untouched. An empty
// doc is treated as an empty table.
func SetBinding(doc []byte, seq string, a Action) ([]byte, error) {
	if err := a.Validate(seq); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", seq, err)
	}

	out, err := sjson.SetRawBytes(normalizeDoc(doc), escapeKey(seq), raw)
	if err != nil {
		return nil, fmt.Errorf("setting %q: %w", seq, err)
	}
	if _, err := Parse(out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBinding removes seq from doc. Deleting a missing key is not an error.
func DeleteBinding(doc []byte, seq string) ([]byte, error) {
	if seq == "" {
		return nil, invalid(seq, "", "empty key sequence")
	}
	out, err := sjson.DeleteBytes(normalizeDoc(doc), escapeKey(seq))
	if err != nil {
		return nil, fmt.Errorf("deleting %q: %w", seq, err)
	}
	if _, err := Parse(out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeDoc(doc []byte) []byte {
	if len(bytes.TrimSpace(doc)) == 0 {
		return []byte("{}")
	}
	return doc
}

// escapeKey turns a key sequence into a single sjson path component.
// Sequences are arbitrary characters, so everything but letters is escaped,
// and all-digit keys are forced to object keys.
func escapeKey(seq string) string {
	var b strings.Builder
	allDigits := true
	for _, r := range seq {
		if !unicode.IsDigit(r) {
			allDigits = false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	if allDigits {
		return ":" + b.String()
	}
	return b.String()
}
