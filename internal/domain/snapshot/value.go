package snapshot

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Sentinels stand in for fields the scraper could not extract so that absent
// and empty values serialize the same way on every cycle.
const (
	Unknown = "غير معروف"
	Zero    = "0"
)

// Text is a scraped scalar. Decoding accepts any JSON scalar and never fails:
// objects, arrays and null decode to the empty string.
type Text string

// UnmarshalJSON coerces strings, numbers and booleans into trimmed text.
func (t *Text) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		*t = ""
		return nil
	}
	switch x := v.(type) {
	case string:
		*t = Text(strings.TrimSpace(x))
	case json.Number:
		*t = Text(x.String())
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		*t = ""
	}
	return nil
}

func (t Text) or(fallback string) Text {
	if t == "" {
		return Text(fallback)
	}
	return t
}

func fillTexts(values []Text) []Text {
	out := make([]Text, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Canonical returns the comparison-stable serialization of v: map keys sorted,
// no HTML escaping, no trailing newline.
func Canonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Equal reports structural equality of two canonical values. Maps compare
// regardless of key order, sequences compare element by element, scalars
// compare exactly.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case json.Number:
		y, ok := b.(json.Number)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	default:
		// Values that did not come through the normalizer; compare their encodings.
		xb, errA := Canonical(a)
		yb, errB := Canonical(b)
		return errA == nil && errB == nil && bytes.Equal(xb, yb)
	}
}
