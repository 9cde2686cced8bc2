package mission

import (
	"bytes"
	"encoding/json"
)

// CrewMember is one entry of a crew list. Entries are usually names, but any
// JSON value is accepted and written back as read.
type CrewMember struct {
	raw json.RawMessage
}

// CrewName returns a crew entry holding a name.
func CrewName(name string) CrewMember {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(name) // a string always encodes
	return CrewMember{raw: bytes.TrimSpace(buf.Bytes())}
}

// NewCrew returns a crew list of names.
func NewCrew(names ...string) []CrewMember {
	crew := make([]CrewMember, len(names))
	for i, name := range names {
		crew[i] = CrewName(name)
	}
	return crew
}

// String returns the name for string entries and the compact JSON text for
// anything else.
func (c CrewMember) String() string {
	var s string
	if err := json.Unmarshal(c.raw, &s); err == nil {
		return s
	}
	return string(c.raw)
}

// Equal reports whether both entries hold the same JSON value text.
func (c CrewMember) Equal(other CrewMember) bool {
	return bytes.Equal(c.raw, other.raw)
}

// MarshalJSON implements json.Marshaler.
func (c CrewMember) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CrewMember) UnmarshalJSON(data []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	c.raw = buf.Bytes()
	return nil
}
