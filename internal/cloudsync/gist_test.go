package cloudsync

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeGistAPI is an in-memory stand-in for the gist endpoints.
type fakeGistAPI struct {
	mu       sync.Mutex
	content  map[string]string
	patches  int
	status   int // forced error status when non-zero
	message  string
	truncate bool
	lastAuth string
	srv      *httptest.Server
}

func newFakeGistAPI(t *testing.T) *fakeGistAPI {
	t.Helper()
	f := &fakeGistAPI{content: make(map[string]string)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGistAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAuth = r.Header.Get("Authorization")

	if f.status != 0 {
		w.WriteHeader(f.status)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": f.message})
		return
	}

	if strings.HasPrefix(r.URL.Path, "/raw/") {
		_, _ = io.WriteString(w, f.content[strings.TrimPrefix(r.URL.Path, "/raw/")])
		return
	}

	var body gistPayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	id := strings.TrimPrefix(r.URL.Path, "/gists/")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/gists":
		if body.Description != gistDescription || body.Public == nil || *body.Public {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		f.content["g1"] = body.Files[gistFileName].Content
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(gistPayload{ID: "g1"})
	case r.Method == http.MethodPatch:
		if _, ok := f.content[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
			return
		}
		f.content[id] = body.Files[gistFileName].Content
		f.patches++
		_ = json.NewEncoder(w).Encode(gistPayload{ID: id})
	case r.Method == http.MethodGet:
		content, ok := f.content[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
			return
		}
		file := gistFile{Content: content}
		if f.truncate {
			file = gistFile{Content: content[:len(content)/2], Truncated: true, RawURL: f.srv.URL + "/raw/" + id}
		}
		_ = json.NewEncoder(w).Encode(gistPayload{ID: id, Files: map[string]gistFile{gistFileName: file}})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeGistAPI) patchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.patches
}

func (f *fakeGistAPI) stored(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content[id]
}

func (f *fakeGistAPI) set(id, content string) {
	f.mu.Lock()
	f.content[id] = content
	f.mu.Unlock()
}

func (f *fakeGistAPI) fail(status int, message string) {
	f.mu.Lock()
	f.status, f.message = status, message
	f.mu.Unlock()
}
