package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/banyan/internal/scene"
	"github.com/ayusman/banyan/internal/store"
)

func newTestHandler(t *testing.T) (*LayoutHandler, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewLayoutHandler(s), s
}

func TestLayoutHandler_CreateAndGet(t *testing.T) {
	h, _ := newTestHandler(t)

	body := bytes.NewBufferString(`{"name": "gallery", "count": 6, "seed": 42}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/layouts", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var created scene.Layout
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Name != "gallery" || created.Seed != 42 || len(created.Entities) != 6 {
		t.Errorf("created = %q seed %d with %d entities, want gallery/42/6", created.Name, created.Seed, len(created.Entities))
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/layouts/"+created.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", w.Code)
	}
	var got scene.Layout
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != created.ID || len(got.Entities) != 6 {
		t.Errorf("got %q with %d entities, want the created layout", got.ID, len(got.Entities))
	}
}

func TestLayoutHandler_CreateValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"count": 6}`},
		{"zero count", `{"name": "x", "count": 0}`},
		{"negative count", `{"name": "x", "count": -3}`},
		{"bad json", `{{`},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/layouts", bytes.NewBufferString(c.body)))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, w.Code)
		}
	}
}

func TestLayoutHandler_List(t *testing.T) {
	h, s := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/layouts", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var empty struct {
		Layouts []*scene.Layout `json:"layouts"`
	}
	if err := json.NewDecoder(w.Body).Decode(&empty); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if empty.Layouts == nil || len(empty.Layouts) != 0 {
		t.Errorf("empty list = %v, want []", empty.Layouts)
	}

	if err := s.Layouts().Save(scene.Generate("one", 2, 1)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/layouts", nil))
	var got struct {
		Layouts []*scene.Layout `json:"layouts"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Layouts) != 1 {
		t.Errorf("list length = %d, want 1", len(got.Layouts))
	}
}

func TestLayoutHandler_GetNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/layouts/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLayoutHandler_Delete(t *testing.T) {
	h, s := newTestHandler(t)

	layout := scene.Generate("doomed", 2, 1)
	if err := s.Layouts().Save(layout); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/layouts/"+layout.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/layouts/"+layout.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestLayoutHandler_SetPhoto(t *testing.T) {
	h, s := newTestHandler(t)

	layout := scene.Generate("gallery", 4, 1)
	if err := s.Layouts().Save(layout); err != nil {
		t.Fatalf("Save: %v", err)
	}

	body := bytes.NewBufferString(`{"index": 2, "url": "/photos/cat.jpg"}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/layouts/"+layout.ID+"/photo", body))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", w.Code, w.Body.String())
	}

	got, err := s.Layouts().GetByID(layout.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Entities[2].PhotoURL != "/photos/cat.jpg" {
		t.Errorf("photo = %q, want /photos/cat.jpg", got.Entities[2].PhotoURL)
	}

	// Unknown entity index.
	body = bytes.NewBufferString(`{"index": 99, "url": "/photos/x.jpg"}`)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/layouts/"+layout.ID+"/photo", body))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d for unknown entity, want 404", w.Code)
	}
}

func TestLayoutHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/layouts", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT on collection: status = %d, want 405", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/layouts/some-id", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST on item: status = %d, want 405", w.Code)
	}
}
