package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ayusman/banyan/internal/scene"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLayoutRepository_SaveAndGet(t *testing.T) {
	s := newTestStore(t)

	layout := scene.Generate("living-room", 8, 42)
	layout.Entities[3].PhotoURL = "/photos/three.jpg"

	if err := s.Layouts().Save(layout); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Layouts().GetByID(layout.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "living-room" || got.Seed != 42 {
		t.Errorf("got name %q seed %d, want %q 42", got.Name, got.Seed, "living-room")
	}
	if len(got.Entities) != 8 {
		t.Fatalf("entity count = %d, want 8", len(got.Entities))
	}
	for i, e := range got.Entities {
		if e.Index != i {
			t.Errorf("entity %d loaded with index %d, want ordered by index", i, e.Index)
		}
		if e.Gathered != layout.Entities[i].Gathered {
			t.Errorf("entity %d gathered = %v, want %v", i, e.Gathered, layout.Entities[i].Gathered)
		}
		if e.Scattered != layout.Entities[i].Scattered {
			t.Errorf("entity %d scattered = %v, want %v", i, e.Scattered, layout.Entities[i].Scattered)
		}
	}
	if got.Entities[3].PhotoURL != "/photos/three.jpg" {
		t.Errorf("entity 3 photo = %q, want %q", got.Entities[3].PhotoURL, "/photos/three.jpg")
	}
}

func TestLayoutRepository_GetByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Layouts().GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLayoutRepository_Latest(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Layouts().Latest(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest on empty store: err = %v, want ErrNotFound", err)
	}

	first := scene.Generate("first", 4, 1)
	second := scene.Generate("second", 4, 2)
	second.CreatedAt = first.CreatedAt.Add(1)
	if err := s.Layouts().Save(first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := s.Layouts().Save(second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, err := s.Layouts().Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("Latest = %q, want %q", got.Name, second.Name)
	}
	if len(got.Entities) != 4 {
		t.Errorf("Latest entity count = %d, want 4", len(got.Entities))
	}
}

func TestLayoutRepository_List(t *testing.T) {
	s := newTestStore(t)

	for i, name := range []string{"a", "b", "c"} {
		l := scene.Generate(name, 2, int64(i))
		if err := s.Layouts().Save(l); err != nil {
			t.Fatalf("Save %q: %v", name, err)
		}
	}

	layouts, err := s.Layouts().List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(layouts) != 3 {
		t.Fatalf("len = %d, want 3", len(layouts))
	}
	// List omits entities.
	for _, l := range layouts {
		if len(l.Entities) != 0 {
			t.Errorf("layout %q listed with %d entities, want none", l.Name, len(l.Entities))
		}
	}
}

func TestLayoutRepository_Delete(t *testing.T) {
	s := newTestStore(t)

	layout := scene.Generate("doomed", 4, 9)
	if err := s.Layouts().Save(layout); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Layouts().Delete(layout.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Layouts().GetByID(layout.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Layouts().Delete(layout.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
}

func TestLayoutRepository_SetPhotoURL(t *testing.T) {
	s := newTestStore(t)

	layout := scene.Generate("gallery", 4, 3)
	if err := s.Layouts().Save(layout); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Layouts().SetPhotoURL(layout.ID, 2, "/photos/cat.jpg"); err != nil {
		t.Fatalf("SetPhotoURL: %v", err)
	}

	got, err := s.Layouts().GetByID(layout.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Entities[2].PhotoURL != "/photos/cat.jpg" {
		t.Errorf("photo = %q, want %q", got.Entities[2].PhotoURL, "/photos/cat.jpg")
	}

	if err := s.Layouts().SetPhotoURL(layout.ID, 99, "/photos/x.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetPhotoURL out of range: err = %v, want ErrNotFound", err)
	}
}

func TestEventRepository_AppendAndList(t *testing.T) {
	s := newTestStore(t)

	events := []*Event{
		{SessionID: "s1", FromPhase: "tree", ToPhase: "nebula", Explosion: 0},
		{SessionID: "s1", FromPhase: "nebula", ToPhase: "collapsing", Explosion: 1},
		{SessionID: "s1", FromPhase: "collapsing", ToPhase: "tree", Explosion: 0},
		{SessionID: "s2", FromPhase: "tree", ToPhase: "nebula", Explosion: 0},
	}
	for _, e := range events {
		if err := s.Events().Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if e.ID == 0 {
			t.Error("Append did not assign an ID")
		}
	}

	got, err := s.Events().ListBySession("s1")
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantTo := []string{"nebula", "collapsing", "tree"}
	for i, e := range got {
		if e.ToPhase != wantTo[i] {
			t.Errorf("event %d ToPhase = %q, want %q (insertion order)", i, e.ToPhase, wantTo[i])
		}
	}

	empty, err := s.Events().ListBySession("nobody")
	if err != nil {
		t.Fatalf("ListBySession empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("len = %d for unknown session, want 0", len(empty))
	}
}

func TestStore_DeleteCascadesEntities(t *testing.T) {
	s := newTestStore(t)

	layout := scene.Generate("cascade", 4, 5)
	if err := s.Layouts().Save(layout); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Layouts().Delete(layout.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM layout_entities WHERE layout_id = ?`, layout.ID,
	).Scan(&count); err != nil {
		t.Fatalf("count entities: %v", err)
	}
	if count != 0 {
		t.Errorf("orphaned entities = %d, want 0", count)
	}
}

func TestStore_ReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	layout := scene.Generate("persisted", 4, 8)
	if err := s.Layouts().Save(layout); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Layouts().GetByID(layout.ID)
	if err != nil {
		t.Fatalf("GetByID after reopen: %v", err)
	}
	if len(got.Entities) != 4 {
		t.Errorf("entity count after reopen = %d, want 4", len(got.Entities))
	}
}
