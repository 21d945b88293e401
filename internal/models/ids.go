package models

import (
	"strings"

	"github.com/google/uuid"
)

// placeholderPrefix marks placeholder ids in their textual form only.
const placeholderPrefix = "temp_"

// LineID identifies a ServiceLine. A line that was never persisted carries a
// placeholder id that is only meaningful inside one editing session and must
// never reach the store.
type LineID struct {
	value       string
	placeholder bool
}

// PersistedID wraps an id assigned by the store.
func PersistedID(value string) LineID {
	return LineID{value: value}
}

// PlaceholderID wraps a client-side id for a line that does not exist yet.
func PlaceholderID(value string) LineID {
	return LineID{value: value, placeholder: true}
}

// NewPlaceholderID generates a fresh placeholder id.
func NewPlaceholderID() LineID {
	return PlaceholderID(uuid.NewString())
}

// ParseLineID converts the textual form back into a LineID.
func ParseLineID(s string) LineID {
	if rest, ok := strings.CutPrefix(s, placeholderPrefix); ok {
		return PlaceholderID(rest)
	}
	return PersistedID(s)
}

// IsZero reports whether the id is unset.
func (id LineID) IsZero() bool { return id.value == "" }

// IsPlaceholder reports whether the id only exists client-side.
func (id LineID) IsPlaceholder() bool { return id.placeholder && id.value != "" }

// Persisted returns the store id, if the line has one.
func (id LineID) Persisted() (string, bool) {
	if id.placeholder || id.value == "" {
		return "", false
	}
	return id.value, true
}

// String returns the textual form, prefixing placeholders.
func (id LineID) String() string {
	if id.placeholder && id.value != "" {
		return placeholderPrefix + id.value
	}
	return id.value
}

// MarshalText implements encoding.TextMarshaler.
func (id LineID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *LineID) UnmarshalText(text []byte) error {
	*id = ParseLineID(string(text))
	return nil
}
