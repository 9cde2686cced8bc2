// Package mission holds the mission catalog: its on-disk JSON shape, the
// add/remove mutations and the budget/duration aggregates.
package mission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrDuplicateID is returned when adding a mission whose id is already taken.
var ErrDuplicateID = errors.New("mission already exists")

// Mission is one catalog record.
type Mission struct {
	ID                ID           `json:"id"`
	Name              string       `json:"nom"`
	Destination       string       `json:"destination"`
	DurationDays      float64      `json:"duree_jours"`
	Crew              []CrewMember `json:"equipage"`
	BudgetMillionsUSD float64      `json:"budget_millions_usd"`

	// Extra keeps record fields this package does not model so a rewrite
	// does not drop them.
	Extra map[string]json.RawMessage `json:"-"`

	// Absent and Null list the known keys that were missing or null in the
	// source record. A rewrite leaves them missing or null.
	Absent []string `json:"-"`
	Null   []string `json:"-"`
}

// missionFields has Mission's layout without its methods.
type missionFields Mission

var missionKeys = []string{"id", "nom", "destination", "duree_jours", "equipage", "budget_millions_usd"}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Mission) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	var f missionFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	for _, k := range missionKeys {
		raw, ok := all[k]
		switch {
		case !ok:
			f.Absent = append(f.Absent, k)
		case string(bytes.TrimSpace(raw)) == "null":
			f.Null = append(f.Null, k)
		}
		delete(all, k)
	}
	if len(all) > 0 {
		f.Extra = all
	}
	*m = Mission(f)
	return nil
}

// MarshalJSON implements json.Marshaler. Known fields come first in their
// usual order, followed by preserved extras sorted by key.
func (m Mission) MarshalJSON() ([]byte, error) {
	crew := m.Crew
	if crew == nil {
		crew = []CrewMember{}
	}
	values := []field{
		{"id", m.ID},
		{"nom", m.Name},
		{"destination", m.Destination},
		{"duree_jours", m.DurationDays},
		{"equipage", crew},
		{"budget_millions_usd", m.BudgetMillionsUSD},
	}

	known := make([]field, 0, len(values))
	for _, f := range values {
		switch {
		case slices.Contains(m.Absent, f.key):
			continue
		case slices.Contains(m.Null, f.key):
			f.value = nil
		}
		known = append(known, f)
	}
	return encodeObject(known, m.Extra)
}

// Catalog is the whole missions document: {"missions": [...]}.
type Catalog struct {
	Missions []Mission

	// Extra keeps top-level keys other than "missions".
	Extra map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler. A document without a
// "missions" key is rejected.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	list, ok := raw["missions"]
	if !ok {
		return errors.New(`catalog has no "missions" key`)
	}

	var missions []Mission
	if err := json.Unmarshal(list, &missions); err != nil {
		return fmt.Errorf("missions: %w", err)
	}
	delete(raw, "missions")
	if len(raw) == 0 {
		raw = nil
	}

	c.Missions = missions
	c.Extra = raw
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Catalog) MarshalJSON() ([]byte, error) {
	missions := c.Missions
	if missions == nil {
		missions = []Mission{}
	}
	return encodeObject([]field{{"missions", missions}}, c.Extra)
}

// hasID reports whether m carries id. Unset ids match nothing.
func (m Mission) hasID(id ID) bool {
	return !id.IsZero() && m.ID.Equal(id)
}

// Find returns the first mission with the given id.
func (c *Catalog) Find(id ID) (Mission, bool) {
	for _, m := range c.Missions {
		if m.hasID(id) {
			return m, true
		}
	}
	return Mission{}, false
}

// Add appends m to the catalog. It fails with ErrDuplicateID when the id is
// already present and leaves the catalog untouched.
func (c *Catalog) Add(m Mission) error {
	if _, exists := c.Find(m.ID); exists {
		return fmt.Errorf("%w: id %s", ErrDuplicateID, m.ID)
	}
	c.Missions = append(c.Missions, m)
	return nil
}

// Remove deletes every mission with the given id and returns how many were
// removed. Removing an unknown id is not an error.
func (c *Catalog) Remove(id ID) int {
	kept := c.Missions[:0]
	removed := 0
	for _, m := range c.Missions {
		if m.hasID(id) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	// Clear the tail so dropped records are not retained by the backing array.
	for i := len(kept); i < len(c.Missions); i++ {
		c.Missions[i] = Mission{}
	}
	c.Missions = kept
	return removed
}

type field struct {
	key   string
	value any
}

func encodeObject(known []field, extra map[string]json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(i int, key string, value []byte) error {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	n := 0
	for _, f := range known {
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		if err := write(n, f.key, v); err != nil {
			return nil, err
		}
		n++
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(n, k, extra[k]); err != nil {
			return nil, err
		}
		n++
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
