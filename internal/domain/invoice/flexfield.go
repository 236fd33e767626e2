package invoice

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
)

// FlexField is the tagged variant Raw(text) | Structured(value) behind the
// line-items and attachments payloads. Historical rows stored either raw text
// or JSON documents; the codec normalizes everything to the structured form
// where possible and degrades to an opaque raw leaf where not, so a malformed
// stored payload never fails the read of the rest of the invoice.
type FlexField struct {
	structured bool
	raw        string
	value      json.RawMessage
}

// NewStructuredField normalizes a JSON document arriving at the DTO boundary
// into the canonical structured form. Input that is not valid JSON degrades
// to the raw form instead of failing.
func NewStructuredField(value json.RawMessage) FlexField {
	if len(value) == 0 {
		return FlexField{}
	}
	compacted, ok := compact(value)
	if !ok {
		return FlexField{raw: string(value)}
	}
	return FlexField{structured: true, value: compacted}
}

// NewRawField wraps opaque text that could not be interpreted as JSON
func NewRawField(text string) FlexField {
	if text == "" {
		return FlexField{}
	}
	return FlexField{raw: text}
}

// DecodeFlexField decodes stored text back into the variant. It never fails:
// unparseable content comes back as the raw form.
func DecodeFlexField(stored string) FlexField {
	if stored == "" {
		return FlexField{}
	}
	compacted, ok := compact([]byte(stored))
	if !ok {
		return FlexField{raw: stored}
	}
	return FlexField{structured: true, value: compacted}
}

// Encode serializes the field deterministically for storage. The raw form
// stores its text verbatim so nothing is lost across a read-write cycle.
func (f FlexField) Encode() string {
	if f.structured {
		return string(f.value)
	}
	return f.raw
}

// JSONValue returns the caller-facing JSON document. The raw form re-encodes
// its text as a single JSON string leaf so the caller always receives valid
// JSON. A zero field returns nil.
func (f FlexField) JSONValue() json.RawMessage {
	if f.structured {
		return f.value
	}
	if f.raw == "" {
		return nil
	}
	encoded, err := json.Marshal(f.raw)
	if err != nil {
		return nil
	}
	return encoded
}

// IsZero reports whether the field carries no content
func (f FlexField) IsZero() bool {
	return !f.structured && f.raw == ""
}

// IsStructured reports whether the field holds a parsed JSON document
func (f FlexField) IsStructured() bool {
	return f.structured
}

func (f FlexField) MarshalJSON() ([]byte, error) {
	v := f.JSONValue()
	if v == nil {
		return []byte("null"), nil
	}
	return v, nil
}

func (f *FlexField) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = FlexField{}
		return nil
	}
	*f = NewStructuredField(data)
	return nil
}

// Value implements driver.Valuer, storing the encoded text
func (f FlexField) Value() (driver.Value, error) {
	if f.IsZero() {
		return nil, nil
	}
	return f.Encode(), nil
}

// Scan implements sql.Scanner with the same tolerance as DecodeFlexField
func (f *FlexField) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = FlexField{}
	case string:
		*f = DecodeFlexField(v)
	case []byte:
		*f = DecodeFlexField(string(v))
	default:
		*f = FlexField{}
	}
	return nil
}

func compact(data []byte) (json.RawMessage, bool) {
	if !json.Valid(data) {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
