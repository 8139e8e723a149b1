package offer

import (
	"encoding/json"
	"fmt"
)

// Missing is the placeholder written for a field the extractor could not
// read. History files and sheet rows produced by earlier deployments use
// this exact string, so it must not change.
const Missing = "N/D"

// Field holds one scraped text value and remembers whether it was actually
// present on the page. Code paths should branch on Ok() instead of comparing
// text against Missing.
type Field struct {
	value string
	ok    bool
}

// NewField wraps a value read from the page.
func NewField(v string) Field {
	return Field{value: v, ok: true}
}

// MissingField is the explicit absent value.
func MissingField() Field {
	return Field{}
}

// Ok reports whether the field was present.
func (f Field) Ok() bool { return f.ok }

// Value returns the raw text and whether it was present.
func (f Field) Value() (string, bool) { return f.value, f.ok }

// Or returns the field text, or fallback when the field is missing.
func (f Field) Or(fallback string) string {
	if !f.ok {
		return fallback
	}
	return f.value
}

// String renders the field for display, hashing and sheet rows. Missing
// fields render as the placeholder so downstream formats stay total.
func (f Field) String() string {
	return f.Or(Missing)
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field must be a JSON string: %w", err)
	}
	if s == Missing {
		*f = Field{}
		return nil
	}
	*f = Field{value: s, ok: true}
	return nil
}
