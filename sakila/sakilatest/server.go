// Package sakilatest provides an in-memory fake of the catalog REST service
// for tests. It serves a deterministic dataset under /api and supports
// failure injection, per-path latency and request counting.
package sakilatest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/s0up4200/filmdesk/sakila"
)

// Server is a running fake backend
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	films        map[int]*sakila.Film
	actors       map[int]*sakila.Actor
	filmActors   map[int][]int
	customers    map[int]*sakila.Customer
	nextCustomer int
	nextRental   int

	failing map[string]int
	delays  map[string]time.Duration
	hits    map[string]int
	total   int
	now     func() time.Time
}

// NewServer starts a fake backend seeded with the default dataset
func NewServer() *Server {
	s := &Server{
		failing: make(map[string]int),
		delays:  make(map[string]time.Duration),
		hits:    make(map[string]int),
		now:     func() time.Time { return time.Date(2006, 2, 14, 15, 16, 3, 0, time.UTC) },
	}
	s.seed()
	s.Server = httptest.NewServer(s.routes())
	return s
}

// APIURL returns the base URL clients should be configured with
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// Fail makes every request matching "METHOD /api/path" answer 500 until
// Recover is called.
func (s *Server) Fail(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[route] = -1
}

// FailOnce makes the next request matching route answer 500
func (s *Server) FailOnce(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[route] = 1
}

// Recover clears a failure injected with Fail
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failing, route)
}

// Delay holds every response for route for d, or until the client gives up
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[route] = d
}

// Requests returns the total number of requests served
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Hits returns the number of requests that matched route
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// CustomerCount returns the number of stored customers
func (s *Server) CustomerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers)
}

// AvailableCopies returns the stock of a film at a store
func (s *Server) AvailableCopies(filmID, storeID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.films[filmID]
	if !ok {
		return 0
	}
	for _, inv := range f.Inventory {
		if inv.StoreID == storeID {
			return inv.AvailableCopies
		}
	}
	return 0
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Route("/api", func(r chi.Router) {
		r.Route("/films", func(r chi.Router) {
			r.Get("/", s.listFilms)
			r.Get("/top-rented", s.topRentedFilms)
			r.Get("/search", s.searchFilms)
			r.Get("/{id}", s.getFilm)
			r.Post("/{id}/rent", s.rentFilm)
		})
		r.Route("/actors", func(r chi.Router) {
			r.Get("/top", s.topActors)
			r.Get("/search/{query}", s.searchActors)
			r.Get("/{id}", s.getActor)
			r.Get("/{id}/top-rented-films", s.actorTopRentedFilms)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.listCustomers)
			r.Post("/", s.createCustomer)
			r.Get("/search", s.searchCustomers)
			r.Get("/{id}", s.getCustomer)
			r.Put("/{id}", s.updateCustomer)
			r.Delete("/{id}", s.deleteCustomer)
			r.Post("/{id}/return-rental", s.returnRental)
		})
	})

	return r
}

// instrument counts requests and applies injected failures and latency
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimRight(r.URL.Path, "/")

		s.mu.Lock()
		s.total++
		s.hits[route]++
		delay := s.delays[route]
		fail := s.failing[route]
		if fail > 0 {
			delete(s.failing, route)
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if fail != 0 {
			writeError(w, http.StatusInternalServerError, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func paging(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

func paginate(total, page, limit int) (sakila.Pagination, int, int) {
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return sakila.Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		HasPrev:     page > 1,
		HasNext:     page < pages,
	}, start, end
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
