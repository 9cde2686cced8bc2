package mission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ID identifies a mission. Catalog files use either integer or string ids,
// and the two never compare equal: 1 and "1" are different missions. The
// zero ID is unset: it stands for a missing or null id and matches no
// mission.
type ID struct {
	text string
	kind idKind
}

type idKind uint8

const (
	idUnset idKind = iota
	idString
	idNumber
)

// IntID returns a numeric id.
func IntID(n int64) ID {
	return ID{text: strconv.FormatInt(n, 10), kind: idNumber}
}

// StringID returns a string id. The empty string is a valid id.
func StringID(s string) ID {
	return ID{text: s, kind: idString}
}

// ParseID interprets command-line input: anything that parses as a number
// is numeric, everything else is a string id.
func ParseID(s string) ID {
	if text, ok := canonicalNumber(s); ok {
		return ID{text: text, kind: idNumber}
	}
	return StringID(s)
}

// String returns the id as written, without quotes.
func (id ID) String() string {
	return id.text
}

// IsNumeric reports whether the id is stored as a JSON number.
func (id ID) IsNumeric() bool {
	return id.kind == idNumber
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id.kind == idUnset
}

// Equal reports whether both ids have the same kind and value.
func (id ID) Equal(other ID) bool {
	return id == other
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idNumber:
		return []byte(id.text), nil
	case idString:
		return json.Marshal(id.text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}

	text, ok := canonicalNumber(string(data))
	if !ok {
		return fmt.Errorf("mission id must be a number or a string, got %s", data)
	}
	*id = ID{text: text, kind: idNumber}
	return nil
}

// canonicalNumber normalizes a numeric literal so that 7 and 7.0 compare
// equal.
func canonicalNumber(s string) (string, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10), true
	}
	return strconv.FormatFloat(f, 'g', -1, 64), true
}
