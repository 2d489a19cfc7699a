package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camden-git/personsweb/client"
	"github.com/camden-git/personsweb/models"
	"github.com/camden-git/personsweb/repository"
	"github.com/camden-git/personsweb/views"
)

type failure struct {
	status int
	body   string
}

// backend is an in-memory stand-in for the persons REST API.
type backend struct {
	mu       sync.Mutex
	persons  []models.Person
	nextID   int
	requests []string
	bodies   []map[string]any
	fail     map[string]failure
	// onDelete runs once, before the next DELETE is served
	onDelete func()
}

func newBackend(persons ...models.Person) *backend {
	return &backend{persons: persons, nextID: 100, fail: make(map[string]failure)}
}

func (b *backend) failWith(method string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[method] = failure{status: status, body: body}
}

func (b *backend) beforeNextDelete(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onDelete = fn
}

func (b *backend) recorded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *backend) lastBody() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.bodies) == 0 {
		return nil
	}
	return b.bodies[len(b.bodies)-1]
}

func (b *backend) count(method string) int {
	n := 0
	for _, r := range b.recorded() {
		if strings.HasPrefix(r, method+" ") {
			n++
		}
	}
	return n
}

func (b *backend) find(id string) int {
	for i, p := range b.persons {
		if string(p.ID) == id {
			return i
		}
	}
	return -1
}

func (b *backend) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			b.requests = append(b.requests, req.Method+" "+req.URL.RequestURI())
			if req.Body != nil && (req.Method == http.MethodPost || req.Method == http.MethodPut) {
				var body map[string]any
				if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
					b.bodies = append(b.bodies, body)
				}
			}
			f, failing := b.fail[req.Method]
			var hook func()
			if req.Method == http.MethodDelete {
				hook, b.onDelete = b.onDelete, nil
			}
			b.mu.Unlock()

			if hook != nil {
				hook()
			}

			if failing {
				w.WriteHeader(f.status)
				_, _ = w.Write([]byte(f.body))
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/persons/", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.persons)
	})
	r.Get("/persons/search/", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		q := strings.ToLower(req.URL.Query().Get("q"))
		matches := []models.Person{}
		for _, p := range b.persons {
			if strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), q) {
				matches = append(matches, p)
			}
		}
		writeJSON(w, http.StatusOK, matches)
	})
	r.Post("/persons/", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.nextID++
		p := models.Person{ID: models.PersonID(strconv.Itoa(b.nextID))}
		if body := b.bodies[len(b.bodies)-1]; body != nil {
			p.FirstName, _ = body["first_name"].(string)
			p.LastName, _ = body["last_name"].(string)
		}
		b.persons = append(b.persons, p)
		writeJSON(w, http.StatusCreated, p)
	})
	r.Route("/persons/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()
			i := b.find(chi.URLParam(req, "id"))
			if i < 0 {
				writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
				return
			}
			writeJSON(w, http.StatusOK, b.persons[i])
		})
		r.Put("/", func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()
			i := b.find(chi.URLParam(req, "id"))
			if i < 0 {
				writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
				return
			}
			body := b.bodies[len(b.bodies)-1]
			b.persons[i].FirstName, _ = body["first_name"].(string)
			b.persons[i].LastName, _ = body["last_name"].(string)
			writeJSON(w, http.StatusOK, b.persons[i])
		})
		r.Delete("/", func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()
			i := b.find(chi.URLParam(req, "id"))
			if i < 0 {
				writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
				return
			}
			b.persons = append(b.persons[:i], b.persons[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

const testSession = "5f0c2a4e-8d1b-4c55-9e7a-2b9f3c1d6e40"

type app struct {
	backend  *backend
	sessions *repository.MemorySessionRepository
	router   http.Handler
}

func newApp(t *testing.T, persons ...models.Person) *app {
	t.Helper()
	be := newBackend(persons...)
	srv := httptest.NewServer(be.handler())
	t.Cleanup(srv.Close)

	renderer, err := views.New()
	require.NoError(t, err)

	sessions := repository.NewMemorySessionRepository()
	h := NewPersonPageHandler(client.New(srv.URL), sessions, renderer, zap.NewNop())
	h.Now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Get("/healthz", Health)
	h.Register(r)

	return &app{backend: be, sessions: sessions, router: r}
}

func (a *app) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: testSession})
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *app) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: testSession})
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func ptr[T any](v T) *T { return &v }

func samplePersons() []models.Person {
	return []models.Person{
		{ID: "1", FirstName: "Ada", LastName: "Lovelace", Gender: models.GenderFemale, CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "2", FirstName: "Alan", LastName: "Turing", Gender: models.GenderMale, CreatedAt: "2024-01-02T00:00:00Z"},
		{ID: "3", FirstName: "Grace", LastName: "Hopper", Gender: models.GenderFemale, CreatedAt: "2024-01-03T00:00:00Z"},
	}
}
