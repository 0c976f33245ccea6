package apiserver

import (
	"dsbplan-backend/internal/components/assert"
	"dsbplan-backend/internal/components/telemetry"
	"dsbplan-backend/internal/plan"
	"dsbplan-backend/internal/store"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	report_server_load   = "server.load"
	report_server_encode = "server.encode"
)

// DefaultTTL is how long a document read from disk is served before it is read again.
const DefaultTTL = 30 * time.Second

// Server serves the published document files over HTTP.
type Server struct {
	path  string
	cache *expirable.LRU[string, plan.Document]
	tel   telemetry.API
}

// NewServer serves the document at path, it is reread at most once per ttl.
func NewServer(path string, ttl time.Duration, tel telemetry.API) Server {
	assert.NotEmptyStr(path)
	assert.NotNil(tel)

	return Server{
		path:  path,
		cache: expirable.NewLRU[string, plan.Document](8, nil, ttl),
		tel:   telemetry.NewScopedAPI("apiserver", tel),
	}
}

// Invalidate drops cached documents, the next request reads the file again.
func (s Server) Invalidate() {
	s.cache.Purge()
}

var errNotPublished = errors.New("no plan has been published yet")

func (s Server) document() (plan.Document, error) {
	cached, hit := s.cache.Get(s.path)
	if hit {
		return cached, nil
	}

	doc, err := store.ReadJSON[plan.Document](s.path)
	if errors.Is(err, os.ErrNotExist) {
		return plan.Document{}, errNotPublished
	}
	if err != nil {
		s.tel.ReportBroken(report_server_load, err, s.path)
		return plan.Document{}, err
	}

	s.cache.Add(s.path, doc)
	return doc, nil
}

func (s Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/{$}", s.handleDocument)
	mux.HandleFunc("GET /api/healthcheck", s.handleHealthcheck)
	mux.HandleFunc("GET /api/courses/{course}", s.handleCourse)
	mux.HandleFunc("GET /api/courses/{course}/{id}", s.handleDay)
	return mux
}

type errorBody struct {
	Error string `json:"error"`
}

func (s Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(v)
	if err != nil {
		s.tel.ReportBroken(report_server_encode, err)
	}
}

func (s Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorBody{Error: message})
}

// loadOr writes the error response itself when the document cannot be loaded.
func (s Server) loadOr(w http.ResponseWriter) (plan.Document, bool) {
	doc, err := s.document()
	if errors.Is(err, errNotPublished) {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return plan.Document{}, false
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load plan")
		return plan.Document{}, false
	}
	return doc, true
}

func (s Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadOr(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadOr(w)
	if !ok {
		return
	}
	course, ok := doc.Courses.Get(r.PathValue("course"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "course not found")
		return
	}
	s.writeJSON(w, http.StatusOK, course)
}

func (s Server) handleDay(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadOr(w)
	if !ok {
		return
	}
	course, ok := doc.Courses.Get(r.PathValue("course"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "course not found")
		return
	}
	id := r.PathValue("id")
	for _, day := range course.Substitution {
		if day.ID == id {
			s.writeJSON(w, http.StatusOK, day)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "substitution day not found")
}

type healthBody struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (s Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	body := healthBody{Status: "success", Message: "dsbplan api"}
	doc, err := s.document()
	if err == nil {
		body.CreatedAt = &doc.CreatedAt
	}
	s.writeJSON(w, http.StatusOK, body)
}
