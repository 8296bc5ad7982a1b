package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeAPI is an in-memory Jendo server speaking the {success,message,data}
// envelope.
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	requests []string
	auth     []string
	bodies   map[string][]byte
	uploads  []string
	failAll  int
	nextID   int64
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{t: t, bodies: map[string][]byte{}, nextID: 600}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		_ = json.Unmarshal(f.body(r), &body)
		if body.Password != "secret" {
			writeEnvelope(w, http.StatusUnauthorized, false, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": 7, "firstName": "Nimal", "lastName": "Perera", "email": body.Email},
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", nil)
	})
	mux.HandleFunc("GET /report-categories", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": 1, "name": "Laboratory", "icon": "flask"},
			{"id": 2, "name": "Imaging"},
		})
	})
	mux.HandleFunc("GET /report-sections/category/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": 10, "name": "Blood Tests", "categoryId": 1},
		})
	})
	mux.HandleFunc("GET /report-items/section/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": 100, "name": "Cholesterol", "sectionId": 10},
		})
	})
	mux.HandleFunc("GET /report-item-values/item/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": 501, "reportItemId": 100, "reportItemName": "Cholesterol", "valueNumber": 180, "valueDate": "2025-03-01", "createdAt": "2025-03-01T08:00:00"},
			{"id": 502, "reportItemId": 100, "reportItemName": "Cholesterol", "valueNumber": 175.5, "valueText": "fasting", "valueDate": "2025-04-01", "createdAt": "2025-04-01T08:00:00",
				"attachments": []map[string]any{{"id": 900, "fileUrl": "/files/a.pdf", "fileType": "application/pdf", "reportItemValueId": 502}}},
		})
	})
	mux.HandleFunc("POST /report-item-values", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.Unmarshal(f.body(r), &req)
		req["id"] = f.newID()
		writeEnvelope(w, http.StatusOK, true, "", req)
	})
	mux.HandleFunc("PUT /report-item-values/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.Unmarshal(f.body(r), &req)
		req["id"] = 502
		writeEnvelope(w, http.StatusOK, true, "", req)
	})
	mux.HandleFunc("DELETE /report-item-values/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", nil)
	})
	mux.HandleFunc("POST /report-item-values/{id}/attachments", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, false, "missing file", nil)
			return
		}
		_ = file.Close()
		f.mu.Lock()
		f.uploads = append(f.uploads, header.Filename)
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"id": f.newID(), "fileUrl": "/files/" + header.Filename, "fileType": header.Header.Get("Content-Type"),
		})
	})
	mux.HandleFunc("GET /doctors", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"content":    []map[string]any{{"id": 3, "name": "Dr. Silva", "specialty": "Cardiology", "hospital": "Central"}},
			"pageNumber": 0, "pageSize": 20, "totalElements": 1, "totalPages": 1, "first": true, "last": true,
		})
	})
	mux.HandleFunc("POST /appointments", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.Unmarshal(f.body(r), &req)
		req["id"] = f.newID()
		req["status"] = "scheduled"
		writeEnvelope(w, http.StatusOK, true, "", req)
	})
	mux.HandleFunc("GET /wellness-recommendations", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": 1, "category": "diet", "title": "Eat more fibre", "description": "Oats and *beans* help.\n\nSecond paragraph.", "priority": 1},
		})
	})
	mux.HandleFunc("GET /notifications", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": 1, "type": "report", "title": "New report", "message": "Lipid panel ready", "isRead": false},
			{"id": 2, "type": "system", "title": "Welcome", "message": "Hello", "isRead": true},
		})
	})
	mux.HandleFunc("PUT /notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", nil)
	})

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		fail := f.failAll
		f.mu.Unlock()
		if fail != 0 && r.URL.Path != "/auth/login" {
			writeEnvelope(w, fail, false, http.StatusText(fail), nil)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   success,
		"message":   message,
		"data":      data,
		"timestamp": "2025-01-01T00:00:00",
	})
}

func (f *fakeAPI) body(r *http.Request) []byte {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.bodies[r.Method+" "+r.URL.Path] = b
	f.mu.Unlock()
	return b
}

func (f *fakeAPI) newID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) sent(key string) map[string]any {
	f.t.Helper()
	f.mu.Lock()
	b := f.bodies[key]
	f.mu.Unlock()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		f.t.Fatalf("decode body of %s: %v (%q)", key, err, b)
	}
	return m
}

func (f *fakeAPI) hits(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

func (f *fakeAPI) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auth) == 0 {
		return ""
	}
	return f.auth[len(f.auth)-1]
}

func (f *fakeAPI) failWith(status int) {
	f.mu.Lock()
	f.failAll = status
	f.mu.Unlock()
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// cliEnv isolates config and session under a temp dir and points every
// invocation at api.
func cliEnv(t *testing.T, api *fakeAPI) func(args ...string) ([]byte, []byte, error) {
	t.Helper()
	t.Setenv("JENDO_CONFIG_DIR", t.TempDir())
	t.Setenv("JENDO_API_URL", "")
	t.Setenv("JENDO_FORMAT", "")
	return func(args ...string) ([]byte, []byte, error) {
		t.Helper()
		return runCLI(t, append([]string{"--api-url", api.srv.URL}, args...))
	}
}

func mustData(t *testing.T, run func(args ...string) ([]byte, []byte, error), args ...string) any {
	t.Helper()
	stdout, stderr, err := run(args...)
	if err != nil {
		t.Fatalf("command failed: jendo %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return data
}
