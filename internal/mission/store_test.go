package mission

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/litescript/ls-mission/internal/safeload"
)

func newTestStore(t *testing.T, c *Catalog) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "missions.json"))
	if c != nil {
		if err := s.Save(c); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	return s
}

func readBytes(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return b
}

func TestStore_LoadSaveRoundTrip(t *testing.T) {
	want := sampleCatalog()
	s := newTestStore(t, want)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// nil crew comes back as an empty list
	want.Missions[2].Crew = []CrewMember{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_AddPersists(t *testing.T) {
	s := newTestStore(t, sampleCatalog())
	m := Mission{ID: IntID(4), Name: "Dragonfly", Destination: "Titan", DurationDays: 1000, Crew: []CrewMember{}}

	if _, err := s.Add(m); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	c, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Missions) != 4 {
		t.Fatalf("persisted %d missions, want 4", len(c.Missions))
	}
	if diff := cmp.Diff(m, c.Missions[3]); diff != "" {
		t.Errorf("appended mission mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_AddDuplicateLeavesFileUnchanged(t *testing.T) {
	s := newTestStore(t, sampleCatalog())
	before := readBytes(t, s.Path())

	_, err := s.Add(Mission{ID: IntID(1), Name: "Artemis IV"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("Add() error = %v, want ErrDuplicateID", err)
	}
	if after := readBytes(t, s.Path()); !bytes.Equal(before, after) {
		t.Errorf("file changed after duplicate add:\n%s", after)
	}
}

func TestStore_AddThenRemoveRestoresContent(t *testing.T) {
	s := newTestStore(t, sampleCatalog())
	before := readBytes(t, s.Path())
	original, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	id := StringID("temp-1")
	if _, err := s.Add(Mission{ID: id, Name: "Scratch"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	_, removed, err := s.Remove(id)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Remove() removed %d, want 1", removed)
	}

	restored, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(original, restored); diff != "" {
		t.Errorf("catalog not restored (-want +got):\n%s", diff)
	}
	if after := readBytes(t, s.Path()); !bytes.Equal(before, after) {
		t.Errorf("file bytes differ after add/remove:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestStore_RemoveUnknown(t *testing.T) {
	s := newTestStore(t, sampleCatalog())

	c, removed, err := s.Remove(IntID(404))
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed != 0 || len(c.Missions) != 3 {
		t.Errorf("Remove() = %d removed, %d left; want 0 and 3", removed, len(c.Missions))
	}
}

func TestStore_PreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missions.json")
	seed := `{"version": 2, "missions": [{"id": 1, "nom": "Rosetta", "duree_jours": 4000, "statut": "terminee"}]}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(path)

	if _, err := s.Add(Mission{ID: IntID(2), Name: "Philae"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	c, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := string(c.Extra["version"]); got != "2" {
		t.Errorf("catalog extra version = %q, want 2", got)
	}
	if got := string(c.Missions[0].Extra["statut"]); got != `"terminee"` {
		t.Errorf("mission extra statut = %q", got)
	}
}

func TestStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	missing := NewStore(filepath.Join(dir, "missing.json"))
	if _, err := missing.Load(); !errors.Is(err, safeload.ErrNotFound) {
		t.Errorf("Load() missing error = %v, want ErrNotFound", err)
	}
	if _, err := missing.Add(Mission{ID: IntID(1)}); !errors.Is(err, safeload.ErrNotFound) {
		t.Errorf("Add() missing error = %v, want ErrNotFound", err)
	}

	noKey := filepath.Join(dir, "nokey.json")
	if err := os.WriteFile(noKey, []byte(`{"flights": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(noKey).Load(); !errors.Is(err, safeload.ErrMalformedContent) {
		t.Errorf("Load() without missions key error = %v, want ErrMalformedContent", err)
	}
}

func seedStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "missions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewStore(path)
}

func TestStore_CrewEntriesOfAnyShape(t *testing.T) {
	s := seedStore(t, `{"missions": [
  {"id": 1, "nom": "Gemini", "destination": "Orbite", "duree_jours": 4,
   "equipage": [101, 102], "budget_millions_usd": 10},
  {"id": 2, "nom": "Apollo", "destination": "Lune", "duree_jours": 8,
   "equipage": [{"nom": "Armstrong", "rang": 1}], "budget_millions_usd": 25}
]}`)

	c, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := TotalCrew(c); got != 3 {
		t.Errorf("TotalCrew = %d, want 3", got)
	}
	if got := c.Missions[0].Crew[1].String(); got != "102" {
		t.Errorf("numeric crew entry = %q, want 102", got)
	}
	if got := c.Missions[1].Crew[0].String(); got != `{"nom":"Armstrong","rang":1}` {
		t.Errorf("object crew entry = %q", got)
	}

	// A rewrite keeps the entries as they were.
	if _, err := s.Add(Mission{ID: IntID(3), Name: "Skylab", Crew: NewCrew("Conrad")}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	after, err := s.Load()
	if err != nil {
		t.Fatalf("Load() after add error = %v", err)
	}
	if diff := cmp.Diff(c.Missions, after.Missions[:2]); diff != "" {
		t.Errorf("crew changed by rewrite (-want +got):\n%s", diff)
	}
}

func TestStore_RewriteKeepsSparseRecords(t *testing.T) {
	s := seedStore(t, `{"missions": [{"nom": "NoID"}, {"id": null, "nom": "Null", "duree_jours": null}]}`)

	// An empty string id is a real id, distinct from a missing one.
	if _, err := s.Add(Mission{ID: StringID(""), Name: "Empty"}); err != nil {
		t.Fatalf("Add() with empty id error = %v", err)
	}

	var doc struct {
		Missions []map[string]json.RawMessage `json:"missions"`
	}
	if err := json.Unmarshal(readBytes(t, s.Path()), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Missions) != 3 {
		t.Fatalf("persisted %d missions, want 3", len(doc.Missions))
	}

	keys := func(rec map[string]json.RawMessage) []string {
		var out []string
		for k := range rec {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}
	if diff := cmp.Diff([]string{"nom"}, keys(doc.Missions[0])); diff != "" {
		t.Errorf("record without id gained keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"duree_jours", "id", "nom"}, keys(doc.Missions[1])); diff != "" {
		t.Errorf("record with null id changed keys (-want +got):\n%s", diff)
	}
	for _, k := range []string{"id", "duree_jours"} {
		if got := string(doc.Missions[1][k]); got != "null" {
			t.Errorf("%s = %s, want null", k, got)
		}
	}
	if got := string(doc.Missions[2]["id"]); got != `""` {
		t.Errorf("added id = %s, want empty string", got)
	}

	_, removed, err := s.Remove(StringID(""))
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Remove(\"\") removed %d, want only the added mission", removed)
	}
}

func TestStore_LoadNestedTypeError(t *testing.T) {
	s := seedStore(t, `{
  "missions": [
    {"id": 1,
     "nom": 5}
  ]
}`)

	_, err := s.Load()
	var me *safeload.MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("Load() error = %v, want *MalformedError", err)
	}
	// Offsets from nested decoding are relative to the record, so no
	// position is reported.
	if me.Line != 0 || me.Column != 0 {
		t.Errorf("position = %d:%d, want none", me.Line, me.Column)
	}
	if strings.Contains(me.Error(), "line") {
		t.Errorf("Error() = %q, should not claim a position", me.Error())
	}
}
