package session

import (
	"errors"
	"path/filepath"
	"testing"
)

// testStore creates a store backed by a temp database.
func testStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(&Config{DBPath: dbPath})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestRecord(t *testing.T) {
	s := testStore(t)

	id, err := s.Record("fullAdder",
		[]string{"3: '|' is missing a left operand."},
		map[string][]int{"d": {3, 2, 1, 0}},
		map[string]string{"Adder": "/designs/Adder.vbi"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Fatal("Record returned an empty id")
	}

	loaded, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Design != "fullAdder" {
		t.Errorf("Design = %q, want fullAdder", loaded.Design)
	}
	if len(loaded.Diagnostics) != 1 {
		t.Errorf("Diagnostics = %v, want one entry", loaded.Diagnostics)
	}
	if got := loaded.Namespaces["d"]; len(got) != 4 || got[0] != 3 {
		t.Errorf("Namespaces[d] = %v, want [3 2 1 0]", got)
	}
	if loaded.Subdesigns["Adder"] != "/designs/Adder.vbi" {
		t.Errorf("Subdesigns = %v", loaded.Subdesigns)
	}
	if loaded.CreatedAt == "" {
		t.Error("CreatedAt is empty")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	s, err := Open(&Config{DBPath: dbPath})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	id, err := s.Record("counter", nil, map[string][]int{"q": {1, 0}}, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A fresh store sees the persisted session.
	s2, err := Open(&Config{DBPath: dbPath})
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer s2.Close()

	if s2.IsCached(id) {
		t.Error("fresh store reports session cached")
	}
	loaded, err := s2.Load(id)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if loaded.Design != "counter" {
		t.Errorf("Design = %q, want counter", loaded.Design)
	}
	if loaded.ID != id {
		t.Errorf("ID = %q, want %q", loaded.ID, id)
	}
	if !s2.IsCached(id) {
		t.Error("loaded session not cached")
	}
}

func TestLoadMissing(t *testing.T) {
	s := testStore(t)
	if _, err := s.Load("counter_nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Load error = %v, want ErrSessionNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	id, err := s.Record("mux", nil, nil, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Load after delete = %v, want ErrSessionNotFound", err)
	}
}

func TestFindByDesign(t *testing.T) {
	s := testStore(t)

	var want []string
	for i := 0; i < 3; i++ {
		id, err := s.Record("decoder", nil, nil, nil)
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		want = append(want, id)
	}
	if _, err := s.Record("other", nil, nil, nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	ids, err := s.FindByDesign("decoder")
	if err != nil {
		t.Fatalf("FindByDesign: %v", err)
	}
	if len(ids) != len(want) {
		t.Fatalf("FindByDesign returned %d ids, want %d", len(ids), len(want))
	}
	found := make(map[string]bool)
	for _, id := range ids {
		found[id] = true
	}
	for _, id := range want {
		if !found[id] {
			t.Errorf("id %s missing from results", id)
		}
	}
}

func TestDirtyTracking(t *testing.T) {
	s := testStore(t)

	id, err := s.Record("latch", nil, nil, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	size, dirty := s.CacheStats()
	if size != 1 || dirty != 0 {
		t.Fatalf("CacheStats = (%d, %d), want (1, 0)", size, dirty)
	}

	loaded, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.Diagnostics = append(loaded.Diagnostics, "1: '~' must be attached to a variable, parenthesis, or concatenation.")
	s.MarkDirty(id)

	if _, dirty := s.CacheStats(); dirty != 1 {
		t.Fatalf("dirty count = %d, want 1", dirty)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, dirty := s.CacheStats(); dirty != 0 {
		t.Fatalf("dirty count after flush = %d, want 0", dirty)
	}
}
