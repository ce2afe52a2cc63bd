package format

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/classify"
)

// ParseStructured attempts to read s as a flat JSON object and returns
// its fields in document order. encoding/json maps lose key order, so the
// object is walked token by token instead.
//
// Accepted values are strings, booleans, numbers and arrays of strings
// (the only value shapes agents emit). Nested objects or mixed arrays
// fail the parse and the caller treats the text as narrative.
func ParseStructured(s string) ([]classify.Field, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	var fields []classify.Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}

		value, ok := decodeValue(dec)
		if !ok {
			return nil, false
		}
		fields = append(fields, classify.Field{Name: key, Value: value})
	}

	// Closing brace, then nothing but whitespace.
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

// DecodeResult interprets a raw agent result from the wire: a JSON
// string is a narrative, a flat JSON object is structured. Anything else
// degrades to a narrative of the raw text rather than being dropped.
func DecodeResult(raw []byte) Result {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Narrative(s)
	}
	if fields, ok := ParseStructured(string(raw)); ok {
		return Structured(fields)
	}
	return Narrative(strings.TrimSpace(string(raw)))
}

func decodeValue(dec *json.Decoder) (interface{}, bool) {
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}

	switch v := tok.(type) {
	case string:
		return v, true
	case bool:
		return v, true
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case json.Delim:
		if v != '[' {
			return nil, false
		}
		items := []string{}
		for dec.More() {
			itemTok, err := dec.Token()
			if err != nil {
				return nil, false
			}
			item, ok := itemTok.(string)
			if !ok {
				return nil, false
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, false
		}
		return items, true
	case nil:
		return nil, false
	default:
		return nil, false
	}
}
